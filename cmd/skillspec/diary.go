package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func diaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Inspect and maintain the skill event diary",
	}
	cmd.AddCommand(diaryEventsCmd())
	cmd.AddCommand(diarySummaryCmd())
	cmd.AddCommand(diaryPruneCmd())
	return cmd
}

func diaryEventsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events [skill]",
		Short: "Show recorded events, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			store, closeFn, err := openDiary(ws)
			if err != nil {
				return err
			}
			defer closeFn()

			skill := ""
			if len(args) == 1 {
				skill = args[0]
			}
			entries, err := store.Entries(cmd.Context(), skill, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No events recorded")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-24s %-9s %-7s errors=%d warnings=%d",
					e.TS, e.Skill, e.Op, e.Outcome, e.Errors, e.Warnings)
				if e.Detail != "" {
					line += "  " + e.Detail
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of events to show")
	return cmd
}

func diarySummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [skill]",
		Short: "Summarize recorded events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			store, closeFn, err := openDiary(ws)
			if err != nil {
				return err
			}
			defer closeFn()

			skill := ""
			if len(args) == 1 {
				skill = args[0]
			}
			sum, err := store.Summarize(cmd.Context(), skill)
			if err != nil {
				return err
			}
			fmt.Printf("Total Events: %d\n", sum.Total)
			fmt.Printf("Validations Passed: %d\n", sum.Passed)
			fmt.Printf("Validations Failed: %d\n", sum.Failed)
			fmt.Printf("Generations: %d\n", sum.Generated)
			return nil
		},
	}
}

func diaryPruneCmd() *cobra.Command {
	var keepDays int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete events older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep-days") {
				keepDays = cfg.Retention.KeepDays
			}

			store, closeFn, err := openDiary(ws)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := store.Prune(cmd.Context(), keepDays)
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d event(s) older than %d day(s)\n", n, keepDays)
			return nil
		},
	}
	cmd.Flags().IntVar(&keepDays, "keep-days", 0, "retention window in days (default: project config)")
	return cmd
}
