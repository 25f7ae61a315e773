// Package validator implements the layered validation pipeline for skill
// specifications: schema, quality, coverage, consistency, and compliance
// checks aggregated by the Engine into one result.
//
// Every layer is tolerant: it collects all findings instead of stopping
// at the first, and a malformed sub-structure degrades into an explicit
// error entry rather than aborting the pipeline.
package validator

import (
	"fmt"
	"os"

	"github.com/metalagman/skillspec/internal/spec"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaError is one structural finding with a dot/bracket addressed
// path and, where derivable, a fix suggestion.
type SchemaError struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// SchemaResult is the outcome of the schema layer.
type SchemaResult struct {
	Valid    bool          `json:"valid"`
	Errors   []SchemaError `json:"errors"`
	Warnings []SchemaError `json:"warnings"`
}

// AddError records an error and flips validity.
func (r *SchemaResult) AddError(path, message, suggestion string) {
	r.Errors = append(r.Errors, SchemaError{Path: path, Message: message, Suggestion: suggestion})
	r.Valid = false
}

// AddWarning records a warning without affecting validity.
func (r *SchemaResult) AddWarning(path, message, suggestion string) {
	r.Warnings = append(r.Warnings, SchemaError{Path: path, Message: message, Suggestion: suggestion})
}

var sectionSuggestions = map[string]string{
	"skill":           "Add a 'skill' section with name, version, purpose, and owner",
	"inputs":          "Add an 'inputs' section with at least one input definition",
	"preconditions":   "Add a 'preconditions' section listing prerequisites",
	"non_goals":       "Add a 'non_goals' section stating what the skill does NOT do",
	"decision_rules":  "Add 'decision_rules' section with explicit conditions",
	"steps":           "Add a 'steps' section with execution flow",
	"output_contract": "Add 'output_contract' with format and schema",
	"failure_modes":   "Add 'failure_modes' section with error definitions",
	"edge_cases":      "Add 'edge_cases' section covering boundary conditions",
}

// SchemaChecker validates structure: required sections, spec_version,
// full field-level constraints of the typed model, and an optional
// supplementary JSON-Schema pass. The schema document is loaded lazily
// and memoized for the checker's lifetime.
type SchemaChecker struct {
	schemaPath string
	schema     *gojsonschema.Schema
	schemaErr  error
	loaded     bool
}

// NewSchemaChecker returns a checker. schemaPath may be empty, in which
// case the supplementary JSON-Schema pass is skipped.
func NewSchemaChecker(schemaPath string) *SchemaChecker {
	return &SchemaChecker{schemaPath: schemaPath}
}

// Check validates the raw spec document.
func (c *SchemaChecker) Check(raw map[string]any) SchemaResult {
	result := SchemaResult{Valid: true}

	c.checkRequiredSections(raw, &result)
	c.checkSpecVersion(raw, &result)

	built, problems := spec.Build(raw)
	for _, p := range problems {
		result.AddError(p.Path, p.Message, p.Suggestion)
	}
	c.checkSkill(raw, built, &result)
	c.checkInputs(raw, built, &result)
	c.checkRules(built, &result)
	c.checkSteps(raw, built, &result)
	c.checkOutputContract(raw, &result)
	c.checkFailureModes(raw, built, &result)
	c.checkEdgeCases(raw, built, &result)

	c.checkJSONSchema(raw, &result)

	return result
}

func (c *SchemaChecker) checkRequiredSections(raw map[string]any, result *SchemaResult) {
	for _, section := range spec.RequiredSections {
		v, ok := raw[section]
		switch {
		case !ok:
			result.AddError(section,
				fmt.Sprintf("Missing required section: %s", section),
				sectionSuggestions[section])
		case v == nil:
			result.AddError(section,
				fmt.Sprintf("Section '%s' is null", section),
				fmt.Sprintf("Provide valid content for '%s'", section))
		default:
			if list, isList := v.([]any); isList && len(list) == 0 {
				result.AddError(section,
					fmt.Sprintf("Section '%s' is empty", section),
					fmt.Sprintf("Add at least one item to '%s'", section))
			}
		}
	}
}

func (c *SchemaChecker) checkSpecVersion(raw map[string]any, result *SchemaResult) {
	v, ok := raw["spec_version"]
	if !ok {
		result.AddError("spec_version",
			"Missing required field: spec_version",
			fmt.Sprintf("Add 'spec_version: %q'", spec.VersionV12))
		return
	}
	str, isStr := v.(string)
	if !isStr || !spec.KnownVersion(str) {
		result.AddWarning("spec_version",
			fmt.Sprintf("Unknown spec version: %v", v),
			fmt.Sprintf("Use %q, %q or %q", spec.VersionV10, spec.VersionV11, spec.VersionV12))
	}
}

func (c *SchemaChecker) checkSkill(raw map[string]any, s *spec.Spec, result *SchemaResult) {
	section, ok := raw["skill"].(map[string]any)
	if !ok {
		return
	}
	for _, field := range []string{"name", "version", "purpose", "owner"} {
		if _, present := section[field]; !present {
			result.AddError("skill."+field,
				fmt.Sprintf("Missing required field: %s", field),
				fmt.Sprintf("Add the required field '%s'", field))
		}
	}
	if s.Skill.Name != "" {
		if !spec.IsKebabCase(s.Skill.Name) {
			result.AddError("skill.name",
				fmt.Sprintf("Skill name must be kebab-case, got: %s", s.Skill.Name),
				"Use lowercase words separated by hyphens, e.g. 'extract-api-contract'")
		}
		if len(s.Skill.Name) > 64 {
			result.AddError("skill.name",
				fmt.Sprintf("Skill name must be 1-64 characters, got: %d", len(s.Skill.Name)),
				"Shorten the skill name")
		}
	}
	if s.Skill.Version != "" && !spec.IsSemver(s.Skill.Version) {
		result.AddError("skill.version",
			fmt.Sprintf("Version must follow semver, got: %s", s.Skill.Version),
			"Use MAJOR.MINOR.PATCH, e.g. '1.0.0'")
	}
	if s.Skill.Purpose != "" && (len(s.Skill.Purpose) < 10 || len(s.Skill.Purpose) > 1024) {
		result.AddError("skill.purpose",
			fmt.Sprintf("Purpose must be 10-1024 characters, got: %d", len(s.Skill.Purpose)),
			"Write a single-sentence purpose statement")
	}
	if s.Skill.Category != "" && !spec.OneOf(s.Skill.Category, spec.Categories) {
		result.AddError("skill.category",
			fmt.Sprintf("Unknown category: %s", s.Skill.Category),
			fmt.Sprintf("Use one of: %v", spec.Categories))
	}
	if s.Skill.Complexity != "" && !spec.OneOf(s.Skill.Complexity, spec.Complexities) {
		result.AddError("skill.complexity",
			fmt.Sprintf("Unknown complexity: %s", s.Skill.Complexity),
			fmt.Sprintf("Use one of: %v", spec.Complexities))
	}
}

func (c *SchemaChecker) checkInputs(raw map[string]any, s *spec.Spec, result *SchemaResult) {
	entries, _ := raw["inputs"].([]any)
	for i, item := range entries {
		entry, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		for _, field := range []string{"name", "type", "required"} {
			if _, present := entry[field]; !present {
				result.AddError(fmt.Sprintf("inputs[%d].%s", i, field),
					fmt.Sprintf("Missing required field: %s", field),
					fmt.Sprintf("Add the required field '%s'", field))
			}
		}
	}
	// Entries that failed to decode are absent from s.Inputs; in.Index
	// keeps findings addressed at the document, not the slice.
	for _, in := range s.Inputs {
		if in.Name != "" && !spec.IsSnakeCase(in.Name) {
			result.AddError(fmt.Sprintf("inputs[%d].name", in.Index),
				fmt.Sprintf("Input name must be snake_case, got: %s", in.Name),
				"Check the format matches the required pattern")
		}
		if in.Type != "" && !spec.OneOf(in.Type, spec.InputTypes) {
			result.AddError(fmt.Sprintf("inputs[%d].type", in.Index),
				fmt.Sprintf("Unknown input type: %s", in.Type),
				fmt.Sprintf("Use one of: %v", spec.InputTypes))
		}
		if in.Domain != nil {
			c.checkDomain(in.Domain, fmt.Sprintf("inputs[%d].domain", in.Index), result)
		}
	}
}

func (c *SchemaChecker) checkDomain(d *spec.InputDomain, path string, result *SchemaResult) {
	if !spec.OneOf(d.Type, spec.DomainTypes) {
		result.AddError(path+".type",
			fmt.Sprintf("Unknown domain type: %s", d.Type),
			fmt.Sprintf("Use one of: %v", spec.DomainTypes))
		return
	}
	switch d.Type {
	case "enum":
		if len(d.Values) == 0 {
			result.AddError(path, "Enum domain requires 'values'", "List the allowed values")
		}
	case "range":
		if d.Min == nil || d.Max == nil {
			result.AddError(path, "Range domain requires 'min' and 'max'", "Add numeric bounds")
		}
	case "pattern_set":
		if len(d.Patterns) == 0 {
			result.AddError(path, "Pattern set domain requires 'patterns'", "List the patterns")
		}
	}
}

func (c *SchemaChecker) checkRules(s *spec.Spec, result *SchemaResult) {
	seen := map[string]bool{}
	defaults := 0
	for i, r := range s.Rules {
		path := fmt.Sprintf("decision_rules.%s", r.ID)
		if !spec.IsSnakeCase(r.ID) {
			result.AddError(path+".id",
				fmt.Sprintf("Rule ID must be snake_case, got: %s", r.ID),
				"Check the format matches the required pattern")
		}
		if seen[r.ID] {
			result.AddError(path+".id",
				fmt.Sprintf("Duplicate rule id: %s", r.ID),
				"Give every rule a unique id")
		}
		seen[r.ID] = true
		if r.Priority < 0 {
			result.AddError(fmt.Sprintf("decision_rules.rules[%d].priority", i),
				"Priority must be >= 0", "Use a non-negative priority")
		}
		if r.IsDefault {
			defaults++
		}
	}
	// More than one default is tolerated structurally; the conflict
	// resolution policy owns runtime ambiguity, so this stays a warning.
	if defaults > 1 {
		result.AddWarning("decision_rules",
			fmt.Sprintf("%d rules are marked is_default; expected at most one", defaults),
			"Keep a single default rule or rely on conflict_resolution")
	}
	if s.RuleConfig.MatchStrategy != "" && !spec.OneOf(s.RuleConfig.MatchStrategy, spec.MatchStrategies) {
		result.AddError("decision_rules._config.match_strategy",
			fmt.Sprintf("Unknown match strategy: %s", s.RuleConfig.MatchStrategy),
			fmt.Sprintf("Use one of: %v", spec.MatchStrategies))
	}
	if s.RuleConfig.ConflictResolution != "" && !spec.OneOf(s.RuleConfig.ConflictResolution, spec.Resolutions) {
		result.AddError("decision_rules._config.conflict_resolution",
			fmt.Sprintf("Unknown conflict resolution: %s", s.RuleConfig.ConflictResolution),
			fmt.Sprintf("Use one of: %v", spec.Resolutions))
	}
}

func (c *SchemaChecker) checkSteps(raw map[string]any, s *spec.Spec, result *SchemaResult) {
	entries, _ := raw["steps"].([]any)
	for i, item := range entries {
		entry, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		for _, field := range []string{"id", "action"} {
			if _, present := entry[field]; !present {
				result.AddError(fmt.Sprintf("steps[%d].%s", i, field),
					fmt.Sprintf("Missing required field: %s", field),
					fmt.Sprintf("Add the required field '%s'", field))
			}
		}
	}
	for _, step := range s.Steps {
		if step.ID != "" && !spec.IsSnakeCase(step.ID) {
			result.AddError(fmt.Sprintf("steps[%d].id", step.Index),
				fmt.Sprintf("Step ID must be snake_case, got: %s", step.ID),
				"Check the format matches the required pattern")
		}
	}
	// A dependency on a not-yet-produced output is an impossible
	// execution order, so it fails structural validation outright.
	for _, p := range spec.CheckStepOrder(s.Steps) {
		result.AddError(p.Path, p.Message, p.Suggestion)
	}
}

func (c *SchemaChecker) checkOutputContract(raw map[string]any, result *SchemaResult) {
	section, ok := raw["output_contract"].(map[string]any)
	if !ok {
		return
	}
	format, hasFormat := section["format"]
	if !hasFormat {
		result.AddError("output_contract.format",
			"Missing required field: format",
			"Add the required field 'format'")
	} else if str, isStr := format.(string); isStr && !spec.OneOf(str, spec.OutputFormats) {
		result.AddError("output_contract.format",
			fmt.Sprintf("Unknown output format: %s", str),
			fmt.Sprintf("Use one of: %v", spec.OutputFormats))
	}
	schema, hasSchema := section["schema"]
	if !hasSchema {
		result.AddError("output_contract.schema",
			"Missing required field: schema",
			"Add the required field 'schema'")
	} else if _, isMap := schema.(map[string]any); !isMap {
		result.AddError("output_contract.schema",
			"Schema must be a JSON Schema object",
			"Use a mapping with at least a 'type' key")
	}
}

func (c *SchemaChecker) checkFailureModes(raw map[string]any, s *spec.Spec, result *SchemaResult) {
	entries, _ := raw["failure_modes"].([]any)
	for i, item := range entries {
		entry, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		for _, field := range []string{"code", "retryable"} {
			if _, present := entry[field]; !present {
				result.AddError(fmt.Sprintf("failure_modes[%d].%s", i, field),
					fmt.Sprintf("Missing required field: %s", field),
					fmt.Sprintf("Add the required field '%s'", field))
			}
		}
	}
	seen := map[string]bool{}
	for _, fm := range s.FailureModes {
		if fm.Code == "" {
			continue
		}
		if !spec.IsUpperSnakeCase(fm.Code) {
			result.AddError(fmt.Sprintf("failure_modes[%d].code", fm.Index),
				fmt.Sprintf("Error code must be UPPER_SNAKE_CASE, got: %s", fm.Code),
				"Check the format matches the required pattern")
		}
		if seen[fm.Code] {
			result.AddError(fmt.Sprintf("failure_modes[%d].code", fm.Index),
				fmt.Sprintf("Duplicate failure code: %s", fm.Code),
				"Give every failure mode a unique code")
		}
		seen[fm.Code] = true
	}
}

func (c *SchemaChecker) checkEdgeCases(raw map[string]any, s *spec.Spec, result *SchemaResult) {
	entries, _ := raw["edge_cases"].([]any)
	for i, item := range entries {
		entry, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		for _, field := range []string{"case", "expected"} {
			if _, present := entry[field]; !present {
				result.AddError(fmt.Sprintf("edge_cases[%d].%s", i, field),
					fmt.Sprintf("Missing required field: %s", field),
					fmt.Sprintf("Add the required field '%s'", field))
			}
		}
	}
	for _, ec := range s.EdgeCases {
		if ec.Case == "" {
			if _, present := rawEdgeCaseField(raw, ec.Index, "case"); present {
				result.AddError(fmt.Sprintf("edge_cases[%d].case", ec.Index),
					"Edge case name must not be empty",
					"Describe the boundary condition")
			}
		}
	}
}

func rawEdgeCaseField(raw map[string]any, i int, field string) (any, bool) {
	entries, _ := raw["edge_cases"].([]any)
	if i >= len(entries) {
		return nil, false
	}
	entry, isMap := entries[i].(map[string]any)
	if !isMap {
		return nil, false
	}
	v, ok := entry[field]
	return v, ok
}

func (c *SchemaChecker) checkJSONSchema(raw map[string]any, result *SchemaResult) {
	if c.schemaPath == "" {
		return
	}
	if !c.loaded {
		c.loaded = true
		data, err := os.ReadFile(c.schemaPath)
		if err != nil {
			c.schemaErr = fmt.Errorf("read schema: %w", err)
		} else {
			c.schema, c.schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if c.schemaErr != nil {
				c.schemaErr = fmt.Errorf("compile schema: %w", c.schemaErr)
			}
		}
	}
	if c.schemaErr != nil {
		result.AddError("schema", c.schemaErr.Error(), "Check the JSON Schema file for errors")
		return
	}
	res, err := c.schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		result.AddError("schema", fmt.Sprintf("schema validation: %v", err), "")
		return
	}
	for _, schemaErr := range res.Errors() {
		path := schemaErr.Field()
		if path == "(root)" {
			path = "root"
		}
		result.AddError(path, schemaErr.Description(), "")
	}
}
