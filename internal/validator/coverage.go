package validator

import (
	"fmt"
	"strings"

	"github.com/metalagman/skillspec/internal/spec"
)

// CoverageGap is one unreferenced declared element.
type CoverageGap struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// CoverageMetrics carries the computed scores. Scores are fractions in
// [0, 1]; an empty denominator counts as fully covered.
type CoverageMetrics struct {
	StructuralScore    float64 `json:"structural_score"`
	BehavioralScore    float64 `json:"behavioral_score"`
	FailuresCovered    int     `json:"failures_covered"`
	FailuresTotal      int     `json:"failures_total"`
	RulesCovered       int     `json:"rules_covered"`
	RulesTotal         int     `json:"rules_total"`
	InputsReferenced   int     `json:"inputs_referenced"`
	InputsTotal        int     `json:"inputs_total"`
	EdgeCasesWithInput int     `json:"edge_cases_with_input"`
	EdgeCasesTotal     int     `json:"edge_cases_total"`
}

// CoverageResult is the outcome of the coverage layer.
type CoverageResult struct {
	Valid   bool            `json:"valid"`
	Metrics CoverageMetrics `json:"metrics"`
	Gaps    []CoverageGap   `json:"gaps"`
}

// Structural score weights. Failure and rule coverage dominate because
// uncovered error paths are the expensive surprises.
const (
	failureWeight = 0.4
	ruleWeight    = 0.4
	inputWeight   = 0.2
)

// CoverageChecker computes reference-count coverage of failure modes,
// decision rules, and inputs, plus behavioral coverage of edge cases.
type CoverageChecker struct{}

func NewCoverageChecker() *CoverageChecker { return &CoverageChecker{} }

// Check computes metrics and gaps for a built spec.
func (c *CoverageChecker) Check(s *spec.Spec) CoverageResult {
	result := CoverageResult{Valid: true}
	m := &result.Metrics

	coveredRules := map[string]bool{}
	coveredFailures := map[string]bool{}
	for _, ec := range s.EdgeCases {
		if ec.CoversRule != "" {
			coveredRules[ec.CoversRule] = true
		}
		if ec.CoversFailure != "" {
			coveredFailures[ec.CoversFailure] = true
		}
		m.EdgeCasesTotal++
		if ec.InputExample != nil {
			m.EdgeCasesWithInput++
		}
	}

	for _, fm := range s.FailureModes {
		m.FailuresTotal++
		if coveredFailures[fm.Code] {
			m.FailuresCovered++
			continue
		}
		result.Gaps = append(result.Gaps, CoverageGap{
			Kind:     "failure_mode",
			ID:       fm.Code,
			Severity: "error",
			Message:  fmt.Sprintf("Failure mode %s is not covered by any edge case", fm.Code),
		})
		result.Valid = false
	}

	for _, r := range s.Rules {
		m.RulesTotal++
		if coveredRules[r.ID] {
			m.RulesCovered++
			continue
		}
		result.Gaps = append(result.Gaps, CoverageGap{
			Kind:     "decision_rule",
			ID:       r.ID,
			Severity: "warning",
			Message:  fmt.Sprintf("Decision rule %s is not covered by any edge case", r.ID),
		})
	}

	// An input is referenced when its name appears in any step action
	// or step condition text.
	var stepText strings.Builder
	for _, step := range s.Steps {
		stepText.WriteString(step.Action)
		stepText.WriteString("\n")
		stepText.WriteString(step.Condition)
		stepText.WriteString("\n")
	}
	haystack := stepText.String()
	for _, in := range s.Inputs {
		m.InputsTotal++
		if in.Name != "" && strings.Contains(haystack, in.Name) {
			m.InputsReferenced++
			continue
		}
		result.Gaps = append(result.Gaps, CoverageGap{
			Kind:     "input",
			ID:       in.Name,
			Severity: "warning",
			Message:  fmt.Sprintf("Input %s is never referenced by a step", in.Name),
		})
	}

	m.StructuralScore = failureWeight*fraction(m.FailuresCovered, m.FailuresTotal) +
		ruleWeight*fraction(m.RulesCovered, m.RulesTotal) +
		inputWeight*fraction(m.InputsReferenced, m.InputsTotal)
	m.BehavioralScore = fraction(m.EdgeCasesWithInput, m.EdgeCasesTotal)

	return result
}

func fraction(n, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(n) / float64(total)
}
