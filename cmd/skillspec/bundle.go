package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/metalagman/skillspec/internal/bundle"
	"github.com/metalagman/skillspec/internal/spec"
	"github.com/spf13/cobra"
)

func bundleCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "bundle <skill>",
		Short: "Package a skill directory into a zip with a checksum manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			skill, err := ws.Find(args[0])
			if err != nil {
				return err
			}

			version := ""
			if raw, err := spec.ParseFile(skill.SpecPath); err == nil {
				built, _ := spec.Build(raw)
				version = built.Skill.Version
			}

			if out == "" {
				name := skill.Name + ".zip"
				if version != "" {
					name = fmt.Sprintf("%s-%s.zip", skill.Name, version)
				}
				out = filepath.Join(ws.Root, name)
			}

			manifest, err := bundle.Write(skill.Name, version, filepath.Dir(skill.SpecPath), out)
			if err != nil {
				return err
			}
			printStatus("✓", fmt.Sprintf("Bundled %d file(s) into %s", len(manifest.Files), out), color.FgGreen)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "bundle file path")
	return cmd
}
