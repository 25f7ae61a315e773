package main

import (
	"fmt"
	"os"

	"github.com/metalagman/skillspec/internal/render"
	"github.com/metalagman/skillspec/internal/spec"
	"github.com/metalagman/skillspec/internal/validator"
	"github.com/spf13/cobra"
)

func checkConsistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-consistency <skill|spec-path>",
		Short: "Check cross-references and document drift for a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			skill, err := resolveSpec(ws, args[0])
			if err != nil {
				return err
			}

			raw, err := spec.ParseFile(skill.SpecPath)
			if err != nil {
				return err
			}
			built, problems := spec.Build(raw)
			for _, p := range problems {
				printFinding("error", p.Path, p.Message, p.Suggestion)
			}

			checker := validator.NewConsistencyChecker()
			result := checker.CheckSpec(built)

			if data, err := os.ReadFile(skill.DocPath); err == nil {
				drift := checker.CheckDocument(string(data), render.SkillMD(raw))
				result.Issues = append(result.Issues, drift.Issues...)
				if !drift.Valid {
					result.Valid = false
				}
			}

			for _, issue := range result.Issues {
				printFinding(issue.Severity, issue.Path, issue.Message, "")
			}
			if !result.Valid || len(problems) > 0 {
				return fmt.Errorf("consistency check failed")
			}
			fmt.Println("Consistency check passed")
			return nil
		},
	}
}

func checkFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-format <skill|SKILL.md-path>",
		Short: "Run the relaxed prose quality check against SKILL.md",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				ws, wsErr := openWorkspace()
				if wsErr != nil {
					return wsErr
				}
				skill, findErr := ws.Find(args[0])
				if findErr != nil {
					return findErr
				}
				if !skill.HasDoc {
					return fmt.Errorf("skill %q has no %s yet; run 'skillspec generate' first", skill.Name, "SKILL.md")
				}
				path = skill.DocPath
			}

			result := validator.NewDocChecker().CheckFile(path)
			for _, v := range result.Violations {
				where := v.Path
				if v.Line > 0 {
					where = fmt.Sprintf("%s:%d", v.Path, v.Line)
				}
				printFinding(v.Severity, where, fmt.Sprintf("%s: found %q", v.Category, v.MatchedText), v.Fix)
			}
			if !result.Valid {
				return fmt.Errorf("format check failed: %d errors", result.Errors)
			}
			fmt.Println("Format check passed")
			return nil
		},
	}
}
