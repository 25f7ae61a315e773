package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML spec document into its raw map form. Only
// unparsable syntax or a non-mapping document is an error; everything
// structural is left to Build and the validation layers.
func Parse(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse spec: document is empty")
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse spec: document must be a mapping, got %T", doc)
	}
	return raw, nil
}

// ParseFile reads and parses a spec file.
func ParseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	return Parse(data)
}

// Build assembles the typed Spec from the raw document. It is tolerant:
// every section is decoded independently, decode failures become
// Problems, and the returned Spec carries whatever did decode. Build
// never returns nil.
func Build(raw map[string]any) (*Spec, []Problem) {
	var problems []Problem
	s := &Spec{RuleConfig: DefaultRuleConfig()}

	if v, ok := raw["spec_version"]; ok {
		if str, isStr := v.(string); isStr {
			s.SpecVersion = str
		} else {
			problems = append(problems, Problem{
				Path:       "spec_version",
				Message:    "spec_version must be a string",
				Suggestion: fmt.Sprintf("Use %q", VersionV12),
			})
		}
	}

	if v, ok := raw["_meta"]; ok && v != nil {
		var meta Meta
		if decodeSection(v, &meta, "_meta", &problems) {
			s.Meta = &meta
		}
	}

	decodeSection(raw["skill"], &s.Skill, "skill", &problems)
	decodeInputs(raw["inputs"], s, &problems)
	decodeStringList(raw["preconditions"], &s.Preconditions, "preconditions", &problems)
	decodeStringList(raw["non_goals"], &s.NonGoals, "non_goals", &problems)

	normalized := NormalizeRules(raw["decision_rules"])
	s.RuleConfig = normalized.Config
	s.Rules = normalized.Rules
	problems = append(problems, normalized.Problems...)

	decodeSteps(raw["steps"], s, &problems)
	decodeSection(raw["output_contract"], &s.OutputContract, "output_contract", &problems)
	decodeFailureModes(raw["failure_modes"], s, &problems)
	decodeEdgeCases(raw["edge_cases"], s, &problems)

	if v, ok := raw["context"]; ok && v != nil {
		var info ContextInfo
		if decodeSection(v, &info, "context", &problems) {
			s.Context = &info
		}
	}

	return s, problems
}

func decodeSection(raw any, out any, path string, problems *[]Problem) bool {
	if raw == nil {
		return false
	}
	if err := decodeStrict(raw, out); err != nil {
		*problems = append(*problems, Problem{
			Path:    path,
			Message: fmt.Sprintf("invalid %s section: %v", path, err),
		})
		return false
	}
	return true
}

func decodeStringList(raw any, out *[]string, path string, problems *[]Problem) {
	if raw == nil {
		return
	}
	list, ok := raw.([]any)
	if !ok {
		*problems = append(*problems, Problem{
			Path:       path,
			Message:    fmt.Sprintf("%s must be a list of strings", path),
			Suggestion: "Use a YAML list",
		})
		return
	}
	for i, item := range list {
		str, isStr := item.(string)
		if !isStr {
			*problems = append(*problems, Problem{
				Path:    fmt.Sprintf("%s[%d]", path, i),
				Message: "entry must be a string",
			})
			continue
		}
		*out = append(*out, str)
	}
}

func decodeInputs(raw any, s *Spec, problems *[]Problem) {
	forEachEntry(raw, "inputs", problems, func(i int, entry map[string]any) {
		var in InputSpec
		if decodeSection(entry, &in, fmt.Sprintf("inputs[%d]", i), problems) {
			in.Index = i
			s.Inputs = append(s.Inputs, in)
		}
	})
}

func decodeSteps(raw any, s *Spec, problems *[]Problem) {
	forEachEntry(raw, "steps", problems, func(i int, entry map[string]any) {
		var step Step
		if decodeSection(entry, &step, fmt.Sprintf("steps[%d]", i), problems) {
			step.Index = i
			s.Steps = append(s.Steps, step)
		}
	})
}

func decodeFailureModes(raw any, s *Spec, problems *[]Problem) {
	forEachEntry(raw, "failure_modes", problems, func(i int, entry map[string]any) {
		var fm FailureMode
		if decodeSection(entry, &fm, fmt.Sprintf("failure_modes[%d]", i), problems) {
			fm.Index = i
			s.FailureModes = append(s.FailureModes, fm)
		}
	})
}

func decodeEdgeCases(raw any, s *Spec, problems *[]Problem) {
	forEachEntry(raw, "edge_cases", problems, func(i int, entry map[string]any) {
		var ec EdgeCase
		if decodeSection(entry, &ec, fmt.Sprintf("edge_cases[%d]", i), problems) {
			ec.Index = i
			s.EdgeCases = append(s.EdgeCases, ec)
		}
	})
}

func forEachEntry(raw any, path string, problems *[]Problem, fn func(int, map[string]any)) {
	if raw == nil {
		return
	}
	list, ok := raw.([]any)
	if !ok {
		*problems = append(*problems, Problem{
			Path:       path,
			Message:    fmt.Sprintf("%s must be a list", path),
			Suggestion: "Use a YAML list of objects",
		})
		return
	}
	for i, item := range list {
		entry, isMap := item.(map[string]any)
		if !isMap {
			*problems = append(*problems, Problem{
				Path:    fmt.Sprintf("%s[%d]", path, i),
				Message: "entry must be a mapping",
			})
			continue
		}
		fn(i, entry)
	}
}

// CheckStepOrder verifies that every based_on reference names an output
// produced by an earlier step in declaration order. Violations are hard
// structural errors: they describe an impossible execution order.
func CheckStepOrder(steps []Step) []Problem {
	var problems []Problem
	available := map[string]bool{}
	for _, step := range steps {
		for _, dep := range step.BasedOn {
			if !available[dep] {
				problems = append(problems, Problem{
					Path: fmt.Sprintf("steps[%d].based_on", step.Index),
					Message: fmt.Sprintf("step %q depends on %q which is not available at this point in the execution flow",
						step.ID, dep),
					Suggestion: "Reorder steps so the producing step comes first",
				})
			}
		}
		if step.Output != "" {
			available[step.Output] = true
		}
	}
	return problems
}
