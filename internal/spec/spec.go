// Package spec defines the typed model for skill specifications and the
// decision-rule normalizer.
//
// A skill specification is a YAML document with eight required core
// sections (skill, inputs, preconditions, non_goals, decision_rules,
// steps, output_contract, failure_modes), one required coverage section
// (edge_cases), and one optional context section. Parsing is tolerant:
// structural problems are collected as findings rather than raised, so a
// partially broken document still yields whatever sections did decode.
package spec

import "regexp"

// Recognized spec_version values.
const (
	VersionV10 = "skill-spec/1.0"
	VersionV11 = "skill-spec/1.1"
	VersionV12 = "skill-spec/1.2"
)

// KnownVersions lists every recognized spec_version.
var KnownVersions = []string{VersionV10, VersionV11, VersionV12}

// KnownVersion reports whether v is a recognized spec_version.
func KnownVersion(v string) bool {
	for _, k := range KnownVersions {
		if v == k {
			return true
		}
	}
	return false
}

// Required sections of the taxonomy: eight core sections plus the
// edge_cases coverage section.
var RequiredSections = []string{
	"skill",
	"inputs",
	"preconditions",
	"non_goals",
	"decision_rules",
	"steps",
	"output_contract",
	"failure_modes",
	"edge_cases",
}

var (
	kebabCaseRE      = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	snakeCaseRE      = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	upperSnakeCaseRE = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	semverRE         = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// IsKebabCase reports whether s is kebab-case (e.g. "extract-api-contract").
func IsKebabCase(s string) bool { return kebabCaseRE.MatchString(s) }

// IsSnakeCase reports whether s is snake_case (e.g. "user_input").
func IsSnakeCase(s string) bool { return snakeCaseRE.MatchString(s) }

// IsUpperSnakeCase reports whether s is UPPER_SNAKE_CASE (e.g. "EMPTY_INPUT").
func IsUpperSnakeCase(s string) bool { return upperSnakeCaseRE.MatchString(s) }

// IsSemver reports whether s is a MAJOR.MINOR.PATCH version.
func IsSemver(s string) bool { return semverRE.MatchString(s) }

// Enumerated field values.
var (
	InputTypes      = []string{"string", "number", "boolean", "object", "array"}
	DomainTypes     = []string{"enum", "range", "pattern_set", "boolean", "any"}
	OutputFormats   = []string{"json", "text", "markdown", "yaml", "binary"}
	Categories      = []string{"documentation", "analysis", "generation", "transformation", "validation", "orchestration", "other"}
	Complexities    = []string{"low", "standard", "advanced"}
	MatchStrategies = []string{"first_match", "priority", "all_match"}
	Resolutions     = []string{"error", "warn", "first_wins"}
)

// OneOf reports whether v is a member of allowed.
func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Problem is a structural finding produced while decoding or normalizing
// a specification. It never aborts processing.
type Problem struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Meta holds the optional _meta section.
type Meta struct {
	ContentLanguage       string `mapstructure:"content_language" json:"content_language,omitempty"`
	MixedLanguageStrategy string `mapstructure:"mixed_language_strategy" json:"mixed_language_strategy,omitempty"`
	Format                string `mapstructure:"format" json:"format,omitempty"`
	TokenBudget           int    `mapstructure:"token_budget" json:"token_budget,omitempty"`
}

// Metadata is the skill identity section.
type Metadata struct {
	Name          string   `mapstructure:"name" json:"name"`
	Version       string   `mapstructure:"version" json:"version"`
	Purpose       string   `mapstructure:"purpose" json:"purpose"`
	Owner         string   `mapstructure:"owner" json:"owner"`
	Category      string   `mapstructure:"category" json:"category,omitempty"`
	Complexity    string   `mapstructure:"complexity" json:"complexity,omitempty"`
	ToolsRequired []string `mapstructure:"tools_required" json:"tools_required,omitempty"`
	Personas      []string `mapstructure:"personas" json:"personas,omitempty"`
	License       string   `mapstructure:"license" json:"license,omitempty"`
	Compatibility string   `mapstructure:"compatibility" json:"compatibility,omitempty"`
}

// InputDomain describes the valid value space of an input. The companion
// field that must be set depends on Type: enum needs Values, range needs
// Min and Max, pattern_set needs Patterns.
type InputDomain struct {
	Type     string   `mapstructure:"type" json:"type"`
	Values   []any    `mapstructure:"values" json:"values,omitempty"`
	Min      *float64 `mapstructure:"min" json:"min,omitempty"`
	Max      *float64 `mapstructure:"max" json:"max,omitempty"`
	Patterns []string `mapstructure:"patterns" json:"patterns,omitempty"`
}

// InputSpec declares one input parameter. Index is the entry's position
// in the source document; entries that fail to decode are skipped, so
// the slice position alone cannot address the document.
type InputSpec struct {
	Index       int          `mapstructure:"-" json:"-"`
	Name        string       `mapstructure:"name" json:"name"`
	Type        string       `mapstructure:"type" json:"type"`
	Required    bool         `mapstructure:"required" json:"required"`
	Constraints []any        `mapstructure:"constraints" json:"constraints,omitempty"`
	Domain      *InputDomain `mapstructure:"domain" json:"domain,omitempty"`
	Description string       `mapstructure:"description" json:"description,omitempty"`
	Tags        []string     `mapstructure:"tags" json:"tags,omitempty"`
}

// DecisionRule is one condition/action pair. When holds a literal bool, a
// string expression, or a structured predicate map. Then is the raw action
// payload; use Action to decode its known fields.
type DecisionRule struct {
	ID        string         `mapstructure:"id" json:"id"`
	Priority  int            `mapstructure:"priority" json:"priority"`
	IsDefault bool           `mapstructure:"is_default" json:"is_default,omitempty"`
	When      any            `mapstructure:"when" json:"when"`
	Then      map[string]any `mapstructure:"then" json:"then"`
}

// RuleAction is the closed set of well-known action fields plus an open
// property bag for everything else.
type RuleAction struct {
	Status string         `mapstructure:"status" json:"status,omitempty"`
	Code   string         `mapstructure:"code" json:"code,omitempty"`
	Action string         `mapstructure:"action" json:"action,omitempty"`
	Path   string         `mapstructure:"path" json:"path,omitempty"`
	Log    string         `mapstructure:"log" json:"log,omitempty"`
	Extra  map[string]any `mapstructure:",remain" json:"extra,omitempty"`
}

// RuleConfig controls rule matching.
type RuleConfig struct {
	MatchStrategy      string `mapstructure:"match_strategy" json:"match_strategy"`
	ConflictResolution string `mapstructure:"conflict_resolution" json:"conflict_resolution"`
}

// DefaultRuleConfig returns the config applied when _config is absent.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{MatchStrategy: "first_match", ConflictResolution: "error"}
}

// Step is one execution step. BasedOn entries must name outputs produced
// by earlier steps in declaration order. Index addresses the source
// document, as on InputSpec.
type Step struct {
	Index     int      `mapstructure:"-" json:"-"`
	ID        string   `mapstructure:"id" json:"id"`
	Action    string   `mapstructure:"action" json:"action"`
	Output    string   `mapstructure:"output" json:"output,omitempty"`
	BasedOn   []string `mapstructure:"based_on" json:"based_on,omitempty"`
	Condition string   `mapstructure:"condition" json:"condition,omitempty"`
}

// OutputContract declares the output format and a JSON-Schema-shaped
// schema object. The schema is validated structurally, not semantically.
type OutputContract struct {
	Format string         `mapstructure:"format" json:"format"`
	Schema map[string]any `mapstructure:"schema" json:"schema"`
}

// FailureMode is one designed failure scenario.
type FailureMode struct {
	Index        int    `mapstructure:"-" json:"-"`
	Code         string `mapstructure:"code" json:"code"`
	Retryable    bool   `mapstructure:"retryable" json:"retryable"`
	Description  string `mapstructure:"description" json:"description,omitempty"`
	RecoveryHint string `mapstructure:"recovery_hint" json:"recovery_hint,omitempty"`
}

// EdgeCase is one coverage entry. CoversRule and CoversFailure are
// back-references resolved by the consistency layer. Index addresses
// the source document, as on InputSpec.
type EdgeCase struct {
	Index         int    `mapstructure:"-" json:"-"`
	Case          string `mapstructure:"case" json:"case"`
	Expected      any    `mapstructure:"expected" json:"expected"`
	InputExample  any    `mapstructure:"input_example" json:"input_example,omitempty"`
	CoversRule    string `mapstructure:"covers_rule" json:"covers_rule,omitempty"`
	CoversFailure string `mapstructure:"covers_failure" json:"covers_failure,omitempty"`
}

// SkillReference names a related skill.
type SkillReference struct {
	Skill  string `mapstructure:"skill" json:"skill"`
	Reason string `mapstructure:"reason" json:"reason"`
}

// Scenario describes a usage scenario.
type Scenario struct {
	Name        string `mapstructure:"name" json:"name"`
	Trigger     string `mapstructure:"trigger" json:"trigger,omitempty"`
	Description string `mapstructure:"description" json:"description"`
}

// ContextInfo is the optional collaboration section.
type ContextInfo struct {
	WorksWith     []SkillReference `mapstructure:"works_with" json:"works_with,omitempty"`
	Prerequisites []string         `mapstructure:"prerequisites" json:"prerequisites,omitempty"`
	Scenarios     []Scenario       `mapstructure:"scenarios" json:"scenarios,omitempty"`
}

// Spec is the decoded specification. Values are never mutated after Build
// returns; transformations produce new values.
type Spec struct {
	SpecVersion    string         `json:"spec_version"`
	Meta           *Meta          `json:"_meta,omitempty"`
	Skill          Metadata       `json:"skill"`
	Inputs         []InputSpec    `json:"inputs"`
	Preconditions  []string       `json:"preconditions"`
	NonGoals       []string       `json:"non_goals"`
	RuleConfig     RuleConfig     `json:"rule_config"`
	Rules          []DecisionRule `json:"rules"`
	Steps          []Step         `json:"steps"`
	OutputContract OutputContract `json:"output_contract"`
	FailureModes   []FailureMode  `json:"failure_modes"`
	EdgeCases      []EdgeCase     `json:"edge_cases"`
	Context        *ContextInfo   `json:"context,omitempty"`
}

// RuleIDs returns the set of normalized rule identifiers.
func (s *Spec) RuleIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Rules))
	for _, r := range s.Rules {
		ids[r.ID] = true
	}
	return ids
}

// FailureCodes returns the set of declared failure codes.
func (s *Spec) FailureCodes() map[string]bool {
	codes := make(map[string]bool, len(s.FailureModes))
	for _, f := range s.FailureModes {
		codes[f.Code] = true
	}
	return codes
}
