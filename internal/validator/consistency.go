package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/metalagman/skillspec/internal/preserve"
	"github.com/metalagman/skillspec/internal/spec"
)

var frontmatterDocRE = regexp.MustCompile(`(?s)^(---[ \t]*\n.*?\n---[ \t]*\n)`)

// ConsistencyIssue is a dangling cross-reference or generated-content
// drift finding.
type ConsistencyIssue struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ConsistencyResult is the outcome of the consistency layer.
type ConsistencyResult struct {
	Valid  bool               `json:"valid"`
	Issues []ConsistencyIssue `json:"issues"`
}

func (r *ConsistencyResult) add(issue ConsistencyIssue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == "error" {
		r.Valid = false
	}
}

// ConsistencyChecker validates intra-spec cross-references and,
// separately, drift between a rendered document's generated blocks and
// a fresh rendering.
type ConsistencyChecker struct{}

func NewConsistencyChecker() *ConsistencyChecker { return &ConsistencyChecker{} }

// CheckSpec validates cross-references inside a built spec. Dangling
// references and impossible step ordering are errors.
func (c *ConsistencyChecker) CheckSpec(s *spec.Spec) ConsistencyResult {
	result := ConsistencyResult{Valid: true}

	ruleIDs := s.RuleIDs()
	failureCodes := s.FailureCodes()

	for _, ec := range s.EdgeCases {
		if ec.CoversRule != "" && !ruleIDs[ec.CoversRule] {
			result.add(ConsistencyIssue{
				Path:     fmt.Sprintf("edge_cases[%d].covers_rule", ec.Index),
				Kind:     "dangling_reference",
				Severity: "error",
				Message:  fmt.Sprintf("Edge case %q references unknown rule: %s", ec.Case, ec.CoversRule),
			})
		}
		if ec.CoversFailure != "" && !failureCodes[ec.CoversFailure] {
			result.add(ConsistencyIssue{
				Path:     fmt.Sprintf("edge_cases[%d].covers_failure", ec.Index),
				Kind:     "dangling_reference",
				Severity: "error",
				Message:  fmt.Sprintf("Edge case %q references unknown failure code: %s", ec.Case, ec.CoversFailure),
			})
		}
	}

	for _, p := range spec.CheckStepOrder(s.Steps) {
		result.add(ConsistencyIssue{
			Path:     p.Path,
			Kind:     "step_order",
			Severity: "error",
			Message:  p.Message,
		})
	}

	return result
}

// CheckDocument compares the generated blocks of a rendered document
// against fresh content, after whitespace normalization. Manual blocks
// are never compared. Drift is a warning: the document is stale, not
// wrong.
func (c *ConsistencyChecker) CheckDocument(document, fresh string) ConsistencyResult {
	result := ConsistencyResult{Valid: true}

	if err := preserve.CheckMarkers(document); err != nil {
		result.add(ConsistencyIssue{
			Path:     "document",
			Kind:     "marker_corruption",
			Severity: "error",
			Message:  err.Error(),
		})
		return result
	}

	doc := preserve.Parse(document)
	gen := doc.GeneratedBlocks()
	if len(gen) == 0 {
		result.add(ConsistencyIssue{
			Path:     "document",
			Kind:     "drift",
			Severity: "warning",
			Message:  "Document has no generated blocks to compare",
		})
		return result
	}

	want := normalizeLines(stripFrontmatter(fresh))
	for i, block := range gen {
		got := normalizeLines(block.Content)
		if linesEqual(got, want) {
			continue
		}
		added, removed := lineDiffSummary(got, want)
		result.add(ConsistencyIssue{
			Path:     fmt.Sprintf("document.generated[%d]", i),
			Kind:     "drift",
			Severity: "warning",
			Message: fmt.Sprintf("Generated block differs from current rendering: %d lines to add, %d to remove",
				added, removed),
		})
	}

	return result
}

// stripFrontmatter drops a leading ---…--- header so the comparison
// covers only content that lives inside generated markers.
func stripFrontmatter(content string) string {
	return frontmatterDocRE.ReplaceAllString(content, "")
}

func normalizeLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lineDiffSummary is a coarse multiset comparison: lines present in
// want but not got count as added, the reverse as removed.
func lineDiffSummary(got, want []string) (added, removed int) {
	counts := map[string]int{}
	for _, line := range got {
		counts[line]++
	}
	for _, line := range want {
		if counts[line] > 0 {
			counts[line]--
		} else {
			added++
		}
	}
	for _, n := range counts {
		removed += n
	}
	return added, removed
}
