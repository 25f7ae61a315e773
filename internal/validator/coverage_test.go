package validator

import (
	"testing"

	"github.com/metalagman/skillspec/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSpec(t *testing.T, text string) *spec.Spec {
	t.Helper()
	raw, err := spec.Parse([]byte(text))
	require.NoError(t, err)
	s, problems := spec.Build(raw)
	require.Empty(t, problems)
	return s
}

func TestCoverageFullyCoveredSpec(t *testing.T) {
	t.Parallel()

	s := buildSpec(t, validSpec)
	result := NewCoverageChecker().Check(s)

	assert.True(t, result.Valid, "gaps: %v", result.Gaps)
	assert.Empty(t, result.Gaps)
	assert.InDelta(t, 1.0, result.Metrics.StructuralScore, 1e-9)
	assert.InDelta(t, 1.0, result.Metrics.BehavioralScore, 1e-9)
}

func TestCoverageUncoveredFailureIsError(t *testing.T) {
	t.Parallel()

	s := buildSpec(t, `
spec_version: skill-spec/1.2
skill:
  name: gap-demo
  version: 1.0.0
  purpose: Demonstrate coverage gaps.
  owner: qa
inputs:
  - name: payload
    type: object
    required: true
decision_rules:
  - id: rule_reject
    when: payload is empty
    then:
      status: error
steps:
  - id: inspect
    action: Inspect the request body
output_contract:
  format: json
  schema:
    type: object
failure_modes:
  - code: BAD_PAYLOAD
    retryable: false
edge_cases:
  - case: nominal
    expected:
      status: ok
`)

	result := NewCoverageChecker().Check(s)
	require.False(t, result.Valid)

	kinds := map[string]string{}
	for _, g := range result.Gaps {
		kinds[g.Kind] = g.Severity
	}
	assert.Equal(t, "error", kinds["failure_mode"])
	assert.Equal(t, "warning", kinds["decision_rule"])
	assert.Equal(t, "warning", kinds["input"])

	m := result.Metrics
	assert.Equal(t, 0, m.FailuresCovered)
	assert.Equal(t, 1, m.FailuresTotal)
	assert.InDelta(t, 0.0, m.StructuralScore, 1e-9)

	// The single edge case carries no input_example.
	assert.InDelta(t, 0.0, m.BehavioralScore, 1e-9)
}

func TestCoverageEmptyDenominatorsScoreFull(t *testing.T) {
	t.Parallel()

	result := NewCoverageChecker().Check(&spec.Spec{})
	assert.True(t, result.Valid)
	assert.InDelta(t, 1.0, result.Metrics.StructuralScore, 1e-9)
	assert.InDelta(t, 1.0, result.Metrics.BehavioralScore, 1e-9)
}
