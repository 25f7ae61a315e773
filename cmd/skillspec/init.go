package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/metalagman/skillspec/internal/workspace"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a skillspec workspace",
		Long:  "Initialize a skillspec workspace by creating the .skillspec directory layout and installing a default project config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			log.Info().Str("dir", filepath.Join(wd, workspace.Dir)).Msg("creating workspace")
			ws, err := workspace.Init(wd)
			if err != nil {
				return err
			}
			printStatus("✓", "Created "+workspace.Dir+" directory layout", color.FgGreen)

			configPath := ws.ConfigPath()
			if _, err := os.Stat(configPath); err == nil {
				printStatus("✓", "skillspec.yaml already exists (skipped)", color.FgGreen)
			} else {
				defaultConfig := `i18n:
  report_locale: en
  content_locale: en
  patterns_locale: union
  template_locale: en
retention:
  keep_days: 90
`
				if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
					return fmt.Errorf("write default config: %w", err)
				}
				printStatus("✓", "Installed default skillspec.yaml", color.FgGreen)
			}

			fmt.Printf("\n%s skillspec workspace ready. Create a skill with 'skillspec new <name>'.\n", color.GreenString("✓"))
			return nil
		},
	}
}

func newCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold a new draft skill from the template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			skill, err := ws.Scaffold(args[0], owner)
			if err != nil {
				return err
			}
			printStatus("✓", "Created "+skill.SpecPath, color.FgGreen)
			fmt.Println("Edit the spec, then run 'skillspec validate " + skill.Name + "'.")
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "unassigned", "owning team recorded in the spec")
	return cmd
}

func printStatus(symbol, message string, attr color.Attribute) {
	c := color.New(attr)
	fmt.Printf("  %s %s\n", c.Sprint(symbol), message)
}
