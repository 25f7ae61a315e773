package validator

import (
	"testing"

	"github.com/metalagman/skillspec/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complianceDoc() map[string]any {
	return map[string]any{
		"spec_version": "skill-spec/1.2",
		"skill": map[string]any{
			"name":    "compliance-demo",
			"purpose": "Demonstrate policy evaluation against a normalized spec.",
			"owner":   "platform",
		},
		"inputs": []any{
			map[string]any{"name": "payload", "type": "object", "required": true},
		},
		"decision_rules": map[string]any{
			"_config": map[string]any{"match_strategy": "first_match", "conflict_resolution": "error"},
			"rules": []any{
				map[string]any{"id": "rule_0", "when": "x", "then": map[string]any{"s": 1}},
			},
		},
		"edge_cases": []any{
			map[string]any{"case": "a"},
			map[string]any{"case": "b"},
		},
	}
}

func onePolicy(rules ...policy.Rule) []*policy.Policy {
	return []*policy.Policy{{Name: "test-policy", Rules: rules}}
}

func TestCompliancePredicateOps(t *testing.T) {
	t.Parallel()

	doc := complianceDoc()
	cases := []struct {
		name string
		pred policy.Predicate
		pass bool
	}{
		{"exists hit", policy.Predicate{Path: "skill.owner", Op: "exists"}, true},
		{"exists miss", policy.Predicate{Path: "skill.reviewer", Op: "exists"}, false},
		{"absent", policy.Predicate{Path: "skill.reviewer", Op: "absent"}, true},
		{"equals", policy.Predicate{Path: "skill.name", Op: "equals", Value: "compliance-demo"}, true},
		{"not_equals", policy.Predicate{Path: "skill.name", Op: "not_equals", Value: "other"}, true},
		{"matches", policy.Predicate{Path: "spec_version", Op: "matches", Value: `^skill-spec/1\.\d+$`}, true},
		{"contains string", policy.Predicate{Path: "skill.purpose", Op: "contains", Value: "policy"}, true},
		{"min_count hit", policy.Predicate{Path: "edge_cases", Op: "min_count", Value: 2}, true},
		{"min_count miss", policy.Predicate{Path: "edge_cases", Op: "min_count", Value: 3}, false},
		{"max_count", policy.Predicate{Path: "edge_cases", Op: "max_count", Value: 2}, true},
		{"min_length", policy.Predicate{Path: "skill.purpose", Op: "min_length", Value: 10}, true},
		{"indexed path", policy.Predicate{Path: "inputs[0].name", Op: "equals", Value: "payload"}, true},
		{"rule path", policy.Predicate{Path: "decision_rules.rules", Op: "min_count", Value: 1}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ok, err := evalPredicate(doc, tc.pred)
			require.NoError(t, err)
			assert.Equal(t, tc.pass, ok)
		})
	}
}

func TestComplianceTallies(t *testing.T) {
	t.Parallel()

	policies := onePolicy(
		policy.Rule{ID: "owner_required", Severity: "error",
			Predicate: policy.Predicate{Path: "skill.owner", Op: "exists"}},
		policy.Rule{ID: "needs_reviewer", Severity: "error", Description: "Every skill needs a reviewer",
			Predicate: policy.Predicate{Path: "skill.reviewer", Op: "exists"}},
		policy.Rule{ID: "many_edge_cases", Severity: "warning",
			Predicate: policy.Predicate{Path: "edge_cases", Op: "min_count", Value: 10}},
	)

	result := NewComplianceChecker().Check(complianceDoc(), policies)
	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.PoliciesApplied)
	assert.Equal(t, 1, result.RulesPassed)
	assert.Equal(t, 2, result.RulesFailed)
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "Every skill needs a reviewer", result.Violations[0].Message)
	assert.Equal(t, "warning", result.Violations[1].Severity)
}

func TestComplianceUnparseablePredicateFailsItsRule(t *testing.T) {
	t.Parallel()

	policies := onePolicy(
		policy.Rule{ID: "broken", Severity: "error",
			Predicate: policy.Predicate{Path: "skill.name", Op: "frobnicate"}},
		policy.Rule{ID: "fine", Severity: "error",
			Predicate: policy.Predicate{Path: "skill.name", Op: "exists"}},
	)

	result := NewComplianceChecker().Check(complianceDoc(), policies)
	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.RulesPassed)
	assert.Equal(t, 1, result.RulesFailed)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "could not be evaluated")
	assert.Contains(t, result.Violations[0].Message, "frobnicate")
}

func TestComplianceWarningDoesNotFlipValidity(t *testing.T) {
	t.Parallel()

	policies := onePolicy(
		policy.Rule{ID: "advice", Severity: "warning",
			Predicate: policy.Predicate{Path: "skill.reviewer", Op: "exists"}},
	)

	result := NewComplianceChecker().Check(complianceDoc(), policies)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.RulesFailed)
}
