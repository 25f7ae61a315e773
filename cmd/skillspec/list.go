package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/metalagman/skillspec/internal/spec"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List skills in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			skills, err := ws.List()
			if err != nil {
				return err
			}
			if len(skills) == 0 {
				fmt.Println("No skills yet. Create one with 'skillspec new <name>'.")
				return nil
			}
			fmt.Printf("%-30s %-10s %s\n", "NAME", "STATUS", "DOC")
			for _, skill := range skills {
				doc := "-"
				if skill.HasDoc {
					doc = "SKILL.md"
				}
				status := skill.Status
				if status == "draft" {
					status = color.YellowString(status)
				}
				fmt.Printf("%-30s %-10s %s\n", skill.Name, status, doc)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <skill>",
		Short: "Show a skill's summary",
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
			built, _ := spec.Build(raw)

			fmt.Printf("Name:     %s\n", built.Skill.Name)
			fmt.Printf("Version:  %s\n", built.Skill.Version)
			fmt.Printf("Owner:    %s\n", built.Skill.Owner)
			fmt.Printf("Status:   %s\n", skill.Status)
			fmt.Printf("Purpose:  %s\n", built.Skill.Purpose)
			fmt.Printf("Spec:     %s\n", skill.SpecPath)
			if skill.HasDoc {
				fmt.Printf("Doc:      %s\n", skill.DocPath)
			}
			fmt.Printf("Rules:    %d\n", len(built.Rules))
			fmt.Printf("Steps:    %d\n", len(built.Steps))
			fmt.Printf("Failures: %d\n", len(built.FailureModes))
			fmt.Printf("Edges:    %d\n", len(built.EdgeCases))
			return nil
		},
	}
}
