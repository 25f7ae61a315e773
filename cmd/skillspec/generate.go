package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/metalagman/skillspec/internal/diary"
	"github.com/metalagman/skillspec/internal/preserve"
	"github.com/metalagman/skillspec/internal/render"
	"github.com/metalagman/skillspec/internal/spec"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var (
		force      bool
		noPreserve bool
	)
	cmd := &cobra.Command{
		Use:   "generate <skill|spec-path>",
		Short: "Render SKILL.md from the spec, preserving manual blocks",
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
			fresh := render.SkillMD(raw)

			var merged string
			previous, readErr := os.ReadFile(skill.DocPath)
			switch {
			case noPreserve || os.IsNotExist(readErr):
				merged = preserve.AddMarkers(fresh)
			case readErr != nil:
				return fmt.Errorf("read %s: %w", skill.DocPath, readErr)
			default:
				res := preserve.Merge(string(previous), fresh, force)
				if !res.OK() {
					for _, e := range res.Errors {
						printStatus("✗", e, color.FgRed)
					}
					return fmt.Errorf("refusing to write %s: marker structure is corrupt", skill.DocPath)
				}
				for _, w := range res.Warnings {
					printStatus("⚠", w, color.FgYellow)
				}
				merged = res.Merged
				if res.Preserved > 0 {
					printStatus("✓", fmt.Sprintf("Preserved %d manual block(s)", res.Preserved), color.FgGreen)
				}
			}

			if err := os.WriteFile(skill.DocPath, []byte(merged), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", skill.DocPath, err)
			}

			recordDiary(cmd.Context(), ws, diary.Entry{
				Skill:   skill.Name,
				Op:      "generate",
				Outcome: "ok",
				Detail:  skill.DocPath,
			})

			printStatus("✓", "Generated "+skill.DocPath, color.FgGreen)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&force, "force", false, "discard the previous document entirely")
	cmd.Flags().BoolVar(&noPreserve, "no-preserve", false, "overwrite without merging manual blocks")
	return cmd
}
