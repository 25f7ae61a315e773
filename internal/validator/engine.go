package validator

import (
	"fmt"
	"os"

	"github.com/metalagman/skillspec/internal/policy"
	"github.com/metalagman/skillspec/internal/render"
	"github.com/metalagman/skillspec/internal/spec"
)

// Options configures an Engine. Zero values mean builtin defaults for
// patterns and scope, no supplementary JSON Schema, and no policies.
type Options struct {
	// SchemaPath points at a supplementary JSON Schema document.
	SchemaPath string
	// PatternsDir holds forbidden_patterns_<lang>.yaml and
	// scan_scope.yaml files.
	PatternsDir string
	// Languages selects which pattern files to union (default: en).
	Languages []string
	// Policies are applied by the compliance layer when non-empty.
	Policies []*policy.Policy
	// Document, when non-empty, is rendered-document content checked
	// for drift against the current spec.
	Document string
}

// Summary tallies findings across every layer.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Result aggregates the per-layer sub-results. Compliance is nil when
// no policies were supplied.
type Result struct {
	Valid       bool              `json:"valid"`
	Schema      SchemaResult      `json:"schema"`
	Quality     QualityResult     `json:"quality"`
	Coverage    CoverageResult    `json:"coverage"`
	Consistency ConsistencyResult `json:"consistency"`
	Compliance  *ComplianceResult `json:"compliance,omitempty"`
	Summary     Summary           `json:"summary"`
}

// Engine runs the validation pipeline. Pattern and scope tables are
// loaded lazily and memoized; one engine serves one logical validation
// operation and must not be shared across goroutines.
type Engine struct {
	opts Options

	schema  *SchemaChecker
	quality *QualityChecker
	loadErr error
	loaded  bool
}

func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

func (e *Engine) load() error {
	if e.loaded {
		return e.loadErr
	}
	e.loaded = true

	e.schema = NewSchemaChecker(e.opts.SchemaPath)

	patterns, err := LoadPatterns(e.opts.PatternsDir, e.opts.Languages)
	if err != nil {
		e.loadErr = err
		return err
	}
	scope, err := LoadScanScope(e.opts.PatternsDir)
	if err != nil {
		e.loadErr = err
		return err
	}
	e.quality = NewQualityChecker(patterns, scope)
	return nil
}

// Validate runs every layer against the raw document and aggregates
// their findings. Layers always all run; a finding in one never stops
// the next.
func (e *Engine) Validate(raw map[string]any) (Result, error) {
	if err := e.load(); err != nil {
		return Result{}, err
	}

	result := Result{Valid: true}
	result.Schema = e.schema.Check(raw)
	result.Quality = e.quality.Check(raw)

	built, _ := spec.Build(raw)
	result.Coverage = NewCoverageChecker().Check(built)
	result.Consistency = NewConsistencyChecker().CheckSpec(built)
	if e.opts.Document != "" {
		drift := NewConsistencyChecker().CheckDocument(e.opts.Document, render.SkillMD(raw))
		result.Consistency.Issues = append(result.Consistency.Issues, drift.Issues...)
		if !drift.Valid {
			result.Consistency.Valid = false
		}
	}

	if len(e.opts.Policies) > 0 {
		compliance := NewComplianceChecker().Check(canonicalDocument(raw, built), e.opts.Policies)
		result.Compliance = &compliance
	}

	result.Summary = summarize(&result)
	result.Valid = result.Summary.Errors == 0

	return result, nil
}

// ValidateFile parses and validates a spec file. Only unreadable input
// short-circuits before the layers run.
func (e *Engine) ValidateFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read spec: %w", err)
	}
	raw, err := spec.Parse(data)
	if err != nil {
		return Result{}, err
	}
	return e.Validate(raw)
}

// canonicalDocument returns a copy of raw with decision_rules replaced
// by the canonical {_config, rules} encoding, so policy predicates
// address one stable shape regardless of the source encoding.
func canonicalDocument(raw map[string]any, built *spec.Spec) map[string]any {
	doc := make(map[string]any, len(raw))
	for k, v := range raw {
		doc[k] = v
	}
	rules := make([]any, 0, len(built.Rules))
	for _, r := range built.Rules {
		entry := map[string]any{"id": r.ID}
		if r.Priority != 0 {
			entry["priority"] = r.Priority
		}
		if r.IsDefault {
			entry["is_default"] = true
		}
		if r.When != nil {
			entry["when"] = r.When
		}
		if r.Then != nil {
			entry["then"] = r.Then
		}
		rules = append(rules, entry)
	}
	doc["decision_rules"] = map[string]any{
		"_config": map[string]any{
			"match_strategy":      built.RuleConfig.MatchStrategy,
			"conflict_resolution": built.RuleConfig.ConflictResolution,
		},
		"rules": rules,
	}
	return doc
}

func summarize(r *Result) Summary {
	var s Summary
	s.Errors += len(r.Schema.Errors)
	s.Warnings += len(r.Schema.Warnings)

	s.Errors += r.Quality.Errors
	s.Warnings += r.Quality.Warnings
	s.Info += r.Quality.Info

	for _, gap := range r.Coverage.Gaps {
		tally(&s, gap.Severity)
	}
	for _, issue := range r.Consistency.Issues {
		tally(&s, issue.Severity)
	}
	if r.Compliance != nil {
		for _, v := range r.Compliance.Violations {
			tally(&s, v.Severity)
		}
	}
	return s
}

func tally(s *Summary, severity string) {
	switch severity {
	case "error":
		s.Errors++
	case "warning":
		s.Warnings++
	case "info":
		s.Info++
	}
}
