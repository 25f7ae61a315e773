// Package preserve implements the SKILL.md preservation protocol: parsing
// a rendered document into generated, manual, and unmarked blocks, and
// merging freshly generated content with a prior revision without losing
// manual edits.
//
// Manual content is never inspected for correctness; it is carried
// through byte-for-byte apart from marker stripping and reinsertion.
package preserve

import (
	"fmt"
	"strings"
)

// Block markers. These are byte-exact for interoperability with other
// tooling that reads the same documents.
const (
	GeneratedStart = "<!-- skillspec:generated:start -->"
	GeneratedEnd   = "<!-- skillspec:generated:end -->"
	ManualStart    = "<!-- skillspec:manual:start -->"
	ManualEnd      = "<!-- skillspec:manual:end -->"
)

// BlockKind identifies who owns a content block.
type BlockKind int

const (
	// Unmarked content sits outside any marker pair.
	Unmarked BlockKind = iota
	// Generated content is machine-owned and regenerable from the spec.
	Generated
	// Manual content is human-owned and preserved across regenerations.
	Manual
)

// String returns the marker-protocol name of the kind.
func (k BlockKind) String() string {
	switch k {
	case Generated:
		return "generated"
	case Manual:
		return "manual"
	default:
		return "unmarked"
	}
}

// Block is one region of a parsed document. Section is the most recently
// seen heading when the block was opened, kept as a hint for reporting.
type Block struct {
	Kind    BlockKind
	Content string
	Section string
}

// Document is the ordered block sequence reconstructed from a rendered
// document's marker stream.
type Document struct {
	Blocks     []Block
	HasMarkers bool
}

// ManualBlocks returns the manual blocks in document order.
func (d *Document) ManualBlocks() []Block {
	return d.blocksOf(Manual)
}

// GeneratedBlocks returns the generated blocks in document order.
func (d *Document) GeneratedBlocks() []Block {
	return d.blocksOf(Generated)
}

func (d *Document) blocksOf(kind BlockKind) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Parse scans content line by line and splits it into blocks. A start
// marker flushes the current accumulation under the previous state and
// opens a new block; an end marker flushes under the current state and
// resets to unmarked; headings update the section hint and stay part of
// the content. A document with no markers is one single unmarked block.
func Parse(content string) *Document {
	doc := &Document{
		HasMarkers: strings.Contains(content, GeneratedStart) || strings.Contains(content, ManualStart),
	}
	if !doc.HasMarkers {
		doc.Blocks = append(doc.Blocks, Block{Kind: Unmarked, Content: content})
		return doc
	}

	var (
		lines   []string
		kind    = Unmarked
		section string
	)
	flush := func(k BlockKind) {
		if len(lines) > 0 {
			doc.Blocks = append(doc.Blocks, Block{Kind: k, Content: strings.Join(lines, "\n"), Section: section})
			lines = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.Contains(line, GeneratedStart):
			flush(kind)
			kind = Generated
			continue
		case strings.Contains(line, ManualStart):
			flush(kind)
			kind = Manual
			continue
		case strings.Contains(line, GeneratedEnd) || strings.Contains(line, ManualEnd):
			doc.Blocks = append(doc.Blocks, Block{Kind: kind, Content: strings.Join(lines, "\n"), Section: section})
			lines = nil
			kind = Unmarked
			continue
		}
		if h, ok := strings.CutPrefix(line, "## "); ok {
			section = strings.TrimSpace(h)
		} else if h, ok := strings.CutPrefix(line, "# "); ok {
			section = strings.TrimSpace(h)
		}
		lines = append(lines, line)
	}
	flush(kind)
	return doc
}

// CheckMarkers validates the marker structure of a document. It reports
// the two corruptions that make preservation unsafe: an end marker with
// no open block, and an unclosed block at end of input. Merge refuses to
// proceed on either.
func CheckMarkers(content string) error {
	open := ""
	openLine := 0
	for i, line := range strings.Split(content, "\n") {
		switch {
		case strings.Contains(line, GeneratedStart):
			open = "generated"
			openLine = i + 1
		case strings.Contains(line, ManualStart):
			open = "manual"
			openLine = i + 1
		case strings.Contains(line, GeneratedEnd) || strings.Contains(line, ManualEnd):
			if open == "" {
				return fmt.Errorf("line %d: end marker without matching start", i+1)
			}
			open = ""
		}
	}
	if open != "" {
		return fmt.Errorf("line %d: %s block is never closed", openLine, open)
	}
	return nil
}
