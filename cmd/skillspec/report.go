package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		out      string
		policies []string
	)
	cmd := &cobra.Command{
		Use:   "report <skill|spec-path>",
		Short: "Write the machine-readable validation report",
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
			skill, err := resolveSpec(ws, args[0])
			if err != nil {
				return err
			}

			var document string
			if data, err := os.ReadFile(skill.DocPath); err == nil {
				document = string(data)
			}

			engine, err := newEngine(ws, cfg, localeContext(cfg), policies, document)
			if err != nil {
				return err
			}
			result, err := engine.ValidateFile(skill.SpecPath)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if out == "" || out == "-" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Println("Report written to " + out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "report file path (default: stdout)")
	cmd.Flags().StringArrayVar(&policies, "policy", nil, "compliance policy file (repeatable)")
	return cmd
}
