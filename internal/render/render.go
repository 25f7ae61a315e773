// Package render produces SKILL.md content from a skill specification.
// The output is the "generated" side of the preservation protocol: it is
// deterministic for a given spec so that regeneration and drift checks
// compare byte-identical content.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/metalagman/skillspec/internal/spec"
)

// SkillMD renders the markdown document for a spec. The input is the raw
// document map so rendering works even for specs that do not fully pass
// validation yet.
func SkillMD(raw map[string]any) string {
	s, _ := spec.Build(raw)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	// Frontmatter. The first few rule conditions double as "use when"
	// triggers in the description.
	var triggers []string
	for _, r := range s.Rules {
		if len(triggers) == 3 {
			break
		}
		if r.When == nil {
			continue
		}
		if lit, ok := r.When.(bool); ok && lit {
			continue
		}
		triggers = append(triggers, stringify(r.When))
	}
	trigger := "general use"
	if len(triggers) > 0 {
		trigger = strings.Join(triggers, " | ")
	}
	line("---")
	line("name: %q", s.Skill.Name)
	line("description: %q", fmt.Sprintf("%s Use when: %s", s.Skill.Purpose, trigger))
	line("---")
	line("")

	line("# %s", titleCase(s.Skill.Name))
	line("")
	line("## Purpose")
	line("")
	line("%s", s.Skill.Purpose)
	line("")

	line("## Inputs")
	line("")
	for _, in := range s.Inputs {
		req := "optional"
		if in.Required {
			req = "required"
		}
		line("- **%s** (%s, %s)", in.Name, in.Type, req)
		if in.Description != "" {
			line("  %s", in.Description)
		}
		if len(in.Constraints) > 0 {
			parts := make([]string, 0, len(in.Constraints))
			for _, c := range in.Constraints {
				parts = append(parts, stringify(c))
			}
			line("  Constraints: %s", strings.Join(parts, ", "))
		}
	}
	line("")

	if len(s.NonGoals) > 0 {
		line("## What This Skill Does NOT Do")
		line("")
		for _, g := range s.NonGoals {
			line("- %s", g)
		}
		line("")
	}

	if len(s.Preconditions) > 0 {
		line("## Prerequisites")
		line("")
		for _, p := range s.Preconditions {
			line("- %s", p)
		}
		line("")
	}

	if len(s.Rules) > 0 {
		line("## Decision Criteria")
		line("")
		for _, r := range s.Rules {
			line("### %s", r.ID)
			line("- **When**: `%s`", stringify(r.When))
			line("- **Then**: `%s`", stringify(r.Then))
			line("")
		}
	}

	if len(s.Steps) > 0 {
		line("## Workflow")
		line("")
		for i, step := range s.Steps {
			out := ""
			if step.Output != "" {
				out = fmt.Sprintf(" -> `%s`", step.Output)
			}
			line("%d. **%s**%s", i+1, step.Action, out)
		}
		line("")
	}

	if len(s.EdgeCases) > 0 {
		line("## Edge Cases")
		line("")
		for _, ec := range s.EdgeCases {
			line("- **%s**: `%s`", ec.Case, stringify(ec.Expected))
		}
		line("")
	}

	line("## Output Format")
	line("")
	format := s.OutputContract.Format
	if format == "" {
		format = "json"
	}
	line("Format: `%s`", format)
	line("")
	line("```json")
	line("%s", jsonBlock(s.OutputContract.Schema))
	line("```")
	line("")

	if len(s.FailureModes) > 0 {
		line("## Error Handling")
		line("")
		for _, fm := range s.FailureModes {
			retry := "Non-retryable"
			if fm.Retryable {
				retry = "Retryable"
			}
			line("- **%s**: %s", fm.Code, retry)
			if fm.Description != "" {
				line("  %s", fm.Description)
			}
		}
		line("")
	}

	if s.Context != nil && len(s.Context.WorksWith) > 0 {
		line("## Works Well With")
		line("")
		for _, ref := range s.Context.WorksWith {
			line("- **%s**: %s", ref.Skill, ref.Reason)
		}
		line("")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// stringify renders a polymorphic field compactly. Maps and lists use
// JSON encoding, which sorts map keys and keeps output deterministic.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

func jsonBlock(v map[string]any) string {
	if v == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// titleCase turns a kebab-case skill name into a document title.
func titleCase(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
