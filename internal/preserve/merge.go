package preserve

import (
	"regexp"
	"strings"
)

// Leading YAML frontmatter (--- ... ---). It must stay at the very top of
// the file, outside any marker pair, so frontmatter-aware parsers see it.
var frontmatterRE = regexp.MustCompile(`(?s)^(---[ \t]*\n.*?\n---[ \t]*\n)`)

// MergeResult reports the outcome of a preservation merge.
type MergeResult struct {
	Merged    string   `json:"merged"`
	Preserved int      `json:"preserved_count"`
	Updated   int      `json:"updated_count"`
	Warnings  []string `json:"warnings,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// OK reports whether the merge produced usable output.
func (r MergeResult) OK() bool { return len(r.Errors) == 0 }

// WrapGenerated wraps content in generated markers, keeping any leading
// frontmatter outside the marker pair.
func WrapGenerated(content string) string {
	if m := frontmatterRE.FindString(content); m != "" {
		rest := content[len(m):]
		return m + GeneratedStart + "\n" + rest + "\n" + GeneratedEnd
	}
	return GeneratedStart + "\n" + content + "\n" + GeneratedEnd
}

// WrapManual wraps content in manual markers.
func WrapManual(content string) string {
	return ManualStart + "\n" + content + "\n" + ManualEnd
}

// Merge combines freshly generated content with a previous document.
//
// With force set, the previous document is discarded entirely and the
// fresh content is returned as-is. A previous document without markers is
// adopted: the fresh content is wrapped in one generated block and a
// warning notes that no prior markers were found. Otherwise every manual
// block of the previous document is preserved, in order, after a single
// regenerated block. Corrupt marker structure in the previous document is
// fatal: the result carries errors and no merged output.
func Merge(previous, fresh string, force bool) MergeResult {
	if force {
		return MergeResult{
			Merged:   fresh,
			Updated:  1,
			Warnings: []string{"force: all existing content replaced"},
		}
	}

	if err := CheckMarkers(previous); err != nil {
		return MergeResult{Errors: []string{"marker structure is corrupt: " + err.Error()}}
	}

	prevDoc := Parse(previous)
	if !prevDoc.HasMarkers {
		return MergeResult{
			Merged:   WrapGenerated(fresh),
			Updated:  1,
			Warnings: []string{"no markers found in existing content; wrapped new content in generated markers"},
		}
	}

	manual := prevDoc.ManualBlocks()

	var parts []string
	if m := frontmatterRE.FindString(fresh); m != "" {
		rest := fresh[len(m):]
		parts = append(parts, strings.TrimSpace(m), "", GeneratedStart, strings.TrimSpace(rest), GeneratedEnd)
	} else {
		parts = append(parts, GeneratedStart, strings.TrimSpace(fresh), GeneratedEnd)
	}

	for _, block := range manual {
		parts = append(parts, "", ManualStart, strings.TrimSpace(block.Content), ManualEnd)
	}

	return MergeResult{
		Merged:    strings.Join(parts, "\n"),
		Preserved: len(manual),
		Updated:   1,
	}
}

// AddMarkers wraps unmarked content in generated markers so it joins the
// preservation protocol. Content that already carries markers is returned
// unchanged.
func AddMarkers(content string) string {
	if Parse(content).HasMarkers {
		return content
	}
	return WrapGenerated(content)
}
