package render

import (
	"strings"
	"testing"

	"github.com/metalagman/skillspec/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderSpec = `
spec_version: skill-spec/1.1
skill:
  name: code-review-assistant
  version: 1.2.0
  purpose: Review pull requests for common defects.
  owner: dev-experience
inputs:
  - name: diff_text
    type: string
    required: true
    description: Unified diff of the change
  - name: max_findings
    type: number
    required: false
preconditions:
  - Diff is under 10k lines
non_goals:
  - Does not merge the pull request
decision_rules:
  - id: rule_empty_diff
    when: diff_text == ''
    then:
      status: error
      code: EMPTY_DIFF
  - id: rule_default
    is_default: true
    when: true
    then:
      status: success
steps:
  - id: parse_diff
    action: Parse the diff_text into hunks
    output: hunks
  - id: review
    action: Review each hunk
    based_on: [hunks]
output_contract:
  format: json
  schema:
    type: object
failure_modes:
  - code: EMPTY_DIFF
    retryable: false
    description: Nothing to review
edge_cases:
  - case: empty diff
    expected:
      status: error
    covers_failure: EMPTY_DIFF
`

func TestSkillMDSections(t *testing.T) {
	t.Parallel()

	raw, err := spec.Parse([]byte(renderSpec))
	require.NoError(t, err)

	md := SkillMD(raw)

	assert.True(t, strings.HasPrefix(md, "---\nname: \"code-review-assistant\"\n"))
	assert.Contains(t, md, "Use when: diff_text == ''")
	assert.Contains(t, md, "# Code Review Assistant")
	assert.Contains(t, md, "## Purpose")
	assert.Contains(t, md, "- **diff_text** (string, required)")
	assert.Contains(t, md, "- **max_findings** (number, optional)")
	assert.Contains(t, md, "## What This Skill Does NOT Do")
	assert.Contains(t, md, "### rule_empty_diff")
	assert.Contains(t, md, "1. **Parse the diff_text into hunks** -> `hunks`")
	assert.Contains(t, md, "## Edge Cases")
	assert.Contains(t, md, "Format: `json`")
	assert.Contains(t, md, "- **EMPTY_DIFF**: Non-retryable")

	// The literal-true default rule is not a trigger.
	assert.NotContains(t, md, "Use when: diff_text == '' | true")
}

func TestSkillMDDeterministic(t *testing.T) {
	t.Parallel()

	raw, err := spec.Parse([]byte(renderSpec))
	require.NoError(t, err)

	assert.Equal(t, SkillMD(raw), SkillMD(raw))
}

func TestSkillMDDefaultTrigger(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"skill": map[string]any{
			"name":    "tiny-skill",
			"purpose": "Do one thing well.",
		},
		"decision_rules": []any{
			map[string]any{"when": true, "then": map[string]any{"status": "success"}},
		},
	}

	md := SkillMD(raw)
	assert.Contains(t, md, "Use when: general use")
	assert.Contains(t, md, "# Tiny Skill")
}
