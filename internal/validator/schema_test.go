package validator

import (
	"testing"

	"github.com/metalagman/skillspec/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpec = `
spec_version: skill-spec/1.2
skill:
  name: extract-api-contract
  version: 1.0.0
  purpose: Extract the API contract from an OpenAPI document.
  owner: platform
inputs:
  - name: openapi_text
    type: string
    required: true
    description: Raw OpenAPI document text
preconditions:
  - Document parses as YAML or JSON
non_goals:
  - Does not call any live API
decision_rules:
  _config:
    match_strategy: first_match
    conflict_resolution: error
  rules:
    - id: rule_empty_input
      when: openapi_text == ''
      then:
        status: error
        code: EMPTY_INPUT
steps:
  - id: parse_document
    action: Parse openapi_text into a document tree
    output: document
  - id: extract_contract
    action: Walk document and collect endpoint contracts
    based_on: [document]
output_contract:
  format: json
  schema:
    type: object
failure_modes:
  - code: EMPTY_INPUT
    retryable: false
edge_cases:
  - case: empty input
    expected:
      status: error
    input_example:
      openapi_text: ""
    covers_failure: EMPTY_INPUT
    covers_rule: rule_empty_input
`

func parseSpec(t *testing.T, text string) map[string]any {
	t.Helper()
	raw, err := spec.Parse([]byte(text))
	require.NoError(t, err)
	return raw
}

func TestSchemaValidSpecPasses(t *testing.T) {
	t.Parallel()

	result := NewSchemaChecker("").Check(parseSpec(t, validSpec))
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestSchemaEmptyInputsSection(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["inputs"] = []any{}

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)

	var found *SchemaError
	for i := range result.Errors {
		if result.Errors[i].Path == "inputs" {
			found = &result.Errors[i]
		}
	}
	require.NotNil(t, found)
	assert.Contains(t, found.Message, "empty")
	assert.Contains(t, found.Suggestion, "at least one")
}

func TestSchemaMissingSections(t *testing.T) {
	t.Parallel()

	result := NewSchemaChecker("").Check(map[string]any{})
	require.False(t, result.Valid)

	paths := map[string]bool{}
	for _, e := range result.Errors {
		paths[e.Path] = true
	}
	for _, section := range spec.RequiredSections {
		assert.True(t, paths[section], "missing error for %s", section)
	}
	assert.True(t, paths["spec_version"])
}

func TestSchemaUnknownVersionIsWarning(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["spec_version"] = "skill-spec/9.9"

	result := NewSchemaChecker("").Check(raw)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "spec_version", result.Warnings[0].Path)
}

func TestSchemaNamePatterns(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	skill := raw["skill"].(map[string]any)
	skill["name"] = "Not Kebab"
	skill["version"] = "one.two"

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)

	var messages []string
	for _, e := range result.Errors {
		messages = append(messages, e.Path+": "+e.Message)
	}
	assert.Contains(t, messages[0]+messages[1], "kebab-case")
}

func TestSchemaDuplicateRuleIDs(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["decision_rules"] = []any{
		map[string]any{"id": "rule_a", "when": "x", "then": map[string]any{"status": "ok"}},
		map[string]any{"id": "rule_a", "when": "y", "then": map[string]any{"status": "ok"}},
	}

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)

	found := false
	for _, e := range result.Errors {
		if e.Path == "decision_rules.rule_a.id" {
			found = true
			assert.Contains(t, e.Message, "Duplicate")
		}
	}
	assert.True(t, found)
}

func TestSchemaMultipleDefaultsWarns(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["decision_rules"] = []any{
		map[string]any{"id": "rule_a", "is_default": true, "when": true, "then": map[string]any{"s": 1}},
		map[string]any{"id": "rule_b", "is_default": true, "when": true, "then": map[string]any{"s": 2}},
	}

	result := NewSchemaChecker("").Check(raw)
	found := false
	for _, w := range result.Warnings {
		if w.Path == "decision_rules" {
			found = true
			assert.Contains(t, w.Message, "is_default")
		}
	}
	assert.True(t, found)
}

func TestSchemaStepOrderViolation(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["steps"] = []any{
		map[string]any{"id": "use_first", "action": "Use the thing", "based_on": []any{"thing"}},
		map[string]any{"id": "make_thing", "action": "Make the thing", "output": "thing"},
	}

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)

	found := false
	for _, e := range result.Errors {
		if e.Path == "steps[0].based_on" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSchemaDomainVariants(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["inputs"] = []any{
		map[string]any{
			"name": "mode", "type": "string", "required": true,
			"domain": map[string]any{"type": "enum"},
		},
		map[string]any{
			"name": "count", "type": "number", "required": false,
			"domain": map[string]any{"type": "range", "min": 1},
		},
	}

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)

	paths := map[string]bool{}
	for _, e := range result.Errors {
		paths[e.Path] = true
	}
	assert.True(t, paths["inputs[0].domain"])
	assert.True(t, paths["inputs[1].domain"])
}

func TestSchemaFailureCodeCase(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["failure_modes"] = []any{
		map[string]any{"code": "not-upper", "retryable": false},
	}

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)
	found := false
	for _, e := range result.Errors {
		if e.Path == "failure_modes[0].code" {
			found = true
			assert.Contains(t, e.Message, "UPPER_SNAKE_CASE")
		}
	}
	assert.True(t, found)
}

func TestSchemaFindingsKeepDocumentIndexes(t *testing.T) {
	t.Parallel()

	raw := parseSpec(t, validSpec)
	raw["inputs"] = []any{
		map[string]any{"name": "first_input", "type": "string", "required": true, "bogus": true},
		map[string]any{"name": "BadName", "type": "string", "required": true},
	}

	result := NewSchemaChecker("").Check(raw)
	require.False(t, result.Valid)

	paths := map[string]bool{}
	for _, e := range result.Errors {
		paths[e.Path] = true
	}
	// Entry 0 fails strict decode and is skipped from the typed model;
	// the finding for entry 1 must still address inputs[1].
	assert.True(t, paths["inputs[0]"], "decode failure for the malformed entry")
	assert.True(t, paths["inputs[1].name"], "snake_case finding addresses the document entry")
	assert.False(t, paths["inputs[0].name"])
}
