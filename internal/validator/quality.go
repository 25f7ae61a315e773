package validator

import (
	"fmt"
	"strings"

	"github.com/metalagman/skillspec/internal/spec"
)

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// QualityViolation is one lexical or semantic finding in prose or rules.
type QualityViolation struct {
	Path        string `json:"path"`
	Pattern     string `json:"pattern"`
	MatchedText string `json:"matched_text"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Fix         string `json:"fix"`
	Line        int    `json:"line,omitempty"`
}

// QualityResult is the outcome of the quality layer.
type QualityResult struct {
	Valid          bool               `json:"valid"`
	Violations     []QualityViolation `json:"violations"`
	CategoryCounts map[string]int     `json:"category_counts"`
	Errors         int                `json:"total_errors"`
	Warnings       int                `json:"total_warnings"`
	Info           int                `json:"total_info"`
}

// Add records a violation, updating counts. Error severity flips
// validity; warning and info never do.
func (r *QualityResult) Add(v QualityViolation) {
	r.Violations = append(r.Violations, v)
	if r.CategoryCounts == nil {
		r.CategoryCounts = map[string]int{}
	}
	r.CategoryCounts[v.Category]++
	switch v.Severity {
	case "error":
		r.Errors++
		r.Valid = false
	case "warning":
		r.Warnings++
	case "info":
		r.Info++
	}
}

// QualityChecker scans prose fields for forbidden patterns and checks
// decision-rule and output-contract completeness.
type QualityChecker struct {
	Patterns []Pattern
	Scope    *ScanScope
}

// NewQualityChecker builds a checker over the given pattern set and
// scan scope; nil scope means the default scope.
func NewQualityChecker(patterns []Pattern, scope *ScanScope) *QualityChecker {
	if scope == nil {
		scope = DefaultScanScope()
	}
	return &QualityChecker{Patterns: patterns, Scope: scope}
}

// Check validates prose quality and rule/contract completeness of the
// raw spec document.
func (c *QualityChecker) Check(raw map[string]any) QualityResult {
	result := QualityResult{Valid: true, CategoryCounts: map[string]int{}}

	for _, field := range c.Scope.Fields(raw) {
		stripped := c.Scope.Strip(field.Value)
		for i := range c.Patterns {
			p := &c.Patterns[i]
			matched := p.Match(stripped)
			if matched == "" {
				continue
			}
			result.Add(QualityViolation{
				Path:        field.Path,
				Pattern:     p.Pattern,
				MatchedText: matched,
				Category:    p.Category,
				Severity:    p.Severity,
				Fix:         p.Fix,
			})
		}
	}

	c.checkRules(raw, &result)
	c.checkContract(raw, &result)

	return result
}

func (c *QualityChecker) checkRules(raw map[string]any, result *QualityResult) {
	normalized := spec.NormalizeRules(raw["decision_rules"])
	for _, r := range normalized.Rules {
		path := fmt.Sprintf("decision_rules.%s", r.ID)
		switch {
		case r.When == nil:
			result.Add(QualityViolation{
				Path:        path + ".when",
				Pattern:     "missing",
				MatchedText: "<missing>",
				Category:    "MISSING_CONDITION",
				Severity:    "error",
				Fix:         "Add 'when' condition to decision rule",
			})
		default:
			if str, ok := r.When.(string); ok && isBlank(str) {
				result.Add(QualityViolation{
					Path:        path + ".when",
					Pattern:     "empty",
					MatchedText: "<empty>",
					Category:    "EMPTY_CONDITION",
					Severity:    "error",
					Fix:         "Provide non-empty 'when' condition",
				})
			}
		}
		if r.Then == nil {
			result.Add(QualityViolation{
				Path:        path + ".then",
				Pattern:     "missing",
				MatchedText: "<missing>",
				Category:    "MISSING_ACTION",
				Severity:    "error",
				Fix:         "Add 'then' action to decision rule",
			})
		}
	}
}

func (c *QualityChecker) checkContract(raw map[string]any, result *QualityResult) {
	contract, _ := raw["output_contract"].(map[string]any)
	schema, present := contract["schema"]
	switch {
	case !present || schema == nil:
		result.Add(QualityViolation{
			Path:        "output_contract.schema",
			Pattern:     "missing",
			MatchedText: "<missing>",
			Category:    "MISSING_SCHEMA",
			Severity:    "error",
			Fix:         "Add JSON Schema for output validation",
		})
	default:
		obj, isMap := schema.(map[string]any)
		if !isMap {
			result.Add(QualityViolation{
				Path:        "output_contract.schema",
				Pattern:     "invalid_type",
				MatchedText: fmt.Sprintf("%T", schema),
				Category:    "INVALID_SCHEMA",
				Severity:    "error",
				Fix:         "Schema must be a JSON Schema object",
			})
			return
		}
		_, hasType := obj["type"]
		_, hasRef := obj["$ref"]
		if !hasType && !hasRef {
			result.Add(QualityViolation{
				Path:        "output_contract.schema",
				Pattern:     "missing_type",
				MatchedText: "<no type>",
				Category:    "INCOMPLETE_SCHEMA",
				Severity:    "warning",
				Fix:         "Add 'type' field to schema",
			})
		}
	}
}
