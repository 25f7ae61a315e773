package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/skillspec/internal/logging"
	"github.com/metalagman/skillspec/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile        string
	debug          bool
	jsonLogs       bool
	reportLocale   string
	patternsLocale string

	rootCmd = &cobra.Command{
		Use:           "skillspec",
		Short:         "skillspec validates and maintains skill specifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", filepath.Join(workspace.Dir, "skillspec.yaml"), "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&reportLocale, "locale", "", "report language (en/zh), overrides project config")
	rootCmd.PersistentFlags().StringVar(&patternsLocale, "patterns-locale", "", "forbidden-pattern language (en/zh/union), overrides project config")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug, jsonLogs)
	}
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(checkConsistencyCmd())
	rootCmd.AddCommand(checkFormatCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(diaryCmd())
	rootCmd.AddCommand(bundleCmd())
	return rootCmd.Execute()
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = filepath.Join(workspace.Dir, "skillspec.yaml")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
