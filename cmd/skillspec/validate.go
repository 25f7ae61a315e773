package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/metalagman/skillspec/internal/diary"
	"github.com/metalagman/skillspec/internal/i18n"
	"github.com/metalagman/skillspec/internal/validator"
	"github.com/metalagman/skillspec/internal/workspace"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var (
		strict   bool
		format   string
		policies []string
	)
	cmd := &cobra.Command{
		Use:   "validate <skill|spec-path>",
		Short: "Run the full validation pipeline against a skill spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}
			ctx := localeContext(cfg)

			skill, err := resolveSpec(ws, args[0])
			if err != nil {
				return err
			}

			var document string
			if data, err := os.ReadFile(skill.DocPath); err == nil {
				document = string(data)
			}

			engine, err := newEngine(ws, cfg, ctx, policies, document)
			if err != nil {
				return err
			}
			result, err := engine.ValidateFile(skill.SpecPath)
			if err != nil {
				return err
			}

			recordDiary(cmd.Context(), ws, diary.Entry{
				Skill:    skill.Name,
				Op:       "validate",
				Outcome:  outcome(result.Valid),
				Errors:   result.Summary.Errors,
				Warnings: result.Summary.Warnings,
			})

			if format == "json" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				printResult(ctx, result)
			}

			if !result.Valid {
				return fmt.Errorf("validation failed: %d errors", result.Summary.Errors)
			}
			if strict && result.Summary.Warnings > 0 {
				return fmt.Errorf("validation failed in strict mode: %d warnings", result.Summary.Warnings)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json)")
	cmd.Flags().StringArrayVar(&policies, "policy", nil, "compliance policy file (repeatable)")
	return cmd
}

func printResult(ctx i18n.Context, result validator.Result) {
	cat := i18n.NewCatalog("")
	locale := ctx.ReportLocale

	if result.Valid {
		fmt.Println(color.GreenString(cat.T(locale, "validation.passed", nil)))
	} else {
		fmt.Println(color.RedString(cat.T(locale, "validation.failed", nil)))
	}
	fmt.Println(cat.T(locale, "validation.summary.total_errors", map[string]any{"count": result.Summary.Errors}))
	fmt.Println(cat.T(locale, "validation.summary.total_warnings", map[string]any{"count": result.Summary.Warnings}))
	fmt.Println(cat.T(locale, "validation.summary.structural_coverage",
		map[string]any{"score": fmt.Sprintf("%.0f", result.Coverage.Metrics.StructuralScore*100)}))
	fmt.Println(cat.T(locale, "validation.summary.behavioral_coverage",
		map[string]any{"score": fmt.Sprintf("%.0f", result.Coverage.Metrics.BehavioralScore*100)}))

	for _, e := range result.Schema.Errors {
		printFinding("error", e.Path, e.Message, e.Suggestion)
	}
	for _, w := range result.Schema.Warnings {
		printFinding("warning", w.Path, w.Message, w.Suggestion)
	}
	for _, v := range result.Quality.Violations {
		printFinding(v.Severity, v.Path, fmt.Sprintf("%s: found %q", v.Category, v.MatchedText), v.Fix)
	}
	for _, g := range result.Coverage.Gaps {
		printFinding(g.Severity, g.Kind, g.Message, "")
	}
	for _, issue := range result.Consistency.Issues {
		printFinding(issue.Severity, issue.Path, issue.Message, "")
	}
	if result.Compliance != nil {
		fmt.Println(cat.T(locale, "compliance.policy_checked",
			map[string]any{"policies": result.Compliance.PoliciesApplied}))
		for _, v := range result.Compliance.Violations {
			printFinding(v.Severity, v.Policy+"/"+v.RuleID, v.Message, "")
		}
	}
}

func printFinding(severity, path, message, suggestion string) {
	label := color.YellowString("[%s]", severity)
	if severity == "error" {
		label = color.RedString("[%s]", severity)
	}
	fmt.Printf("  %s %s: %s\n", label, path, message)
	if suggestion != "" {
		fmt.Printf("      fix: %s\n", suggestion)
	}
}

func outcome(valid bool) string {
	if valid {
		return "passed"
	}
	return "failed"
}

// recordDiary appends a diary entry, logging instead of failing when
// the diary is unavailable: history must never block validation.
func recordDiary(ctx context.Context, ws *workspace.Workspace, entry diary.Entry) {
	store, closeFn, err := openDiary(ws)
	if err != nil {
		log.Warn().Err(err).Msg("diary unavailable")
		return
	}
	defer closeFn()
	if err := store.Append(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("diary append failed")
	}
}
