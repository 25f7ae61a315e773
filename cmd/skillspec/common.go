package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/skillspec/internal/config"
	"github.com/metalagman/skillspec/internal/diary"
	"github.com/metalagman/skillspec/internal/i18n"
	"github.com/metalagman/skillspec/internal/policy"
	"github.com/metalagman/skillspec/internal/validator"
	"github.com/metalagman/skillspec/internal/workspace"
	"github.com/spf13/viper"
)

func openWorkspace() (*workspace.Workspace, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return workspace.Find(wd)
}

func loadConfig(ws *workspace.Workspace) (config.Config, error) {
	cfg := config.Default()

	path := viper.GetString("config")
	if path == "" {
		path = ws.ConfigPath()
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(ws.Root, path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	settings := viper.AllSettings()
	delete(settings, "config")
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// localeContext resolves the effective locales from flags and config;
// flags win.
func localeContext(cfg config.Config) i18n.Context {
	report := cfg.I18n.ReportLocale
	if reportLocale != "" {
		report = reportLocale
	}
	patterns := cfg.I18n.PatternsLocale
	if patternsLocale != "" {
		patterns = patternsLocale
	}
	return i18n.NewContext(report, cfg.I18n.ContentLocale, patterns, cfg.I18n.TemplateLocale)
}

// newEngine builds a validation engine for the workspace. policyPaths
// come from the --policy flag and are added to the config's defaults.
func newEngine(ws *workspace.Workspace, cfg config.Config, ctx i18n.Context, policyPaths []string, document string) (*validator.Engine, error) {
	paths := append([]string{}, cfg.Validation.Policies...)
	paths = append(paths, policyPaths...)
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			paths[i] = filepath.Join(ws.Root, p)
		}
	}
	policies, err := policy.LoadAll(paths)
	if err != nil {
		return nil, err
	}

	schemaPath := cfg.Validation.SchemaPath
	if schemaPath != "" && !filepath.IsAbs(schemaPath) {
		schemaPath = filepath.Join(ws.Root, schemaPath)
	}

	return validator.New(validator.Options{
		SchemaPath:  schemaPath,
		PatternsDir: ws.PatternsDir(),
		Languages:   ctx.PatternLanguages(),
		Policies:    policies,
		Document:    document,
	}), nil
}

// resolveSpec accepts either a skill name in the workspace or a direct
// path to a spec file.
func resolveSpec(ws *workspace.Workspace, nameOrPath string) (*workspace.Skill, error) {
	if info, err := os.Stat(nameOrPath); err == nil && !info.IsDir() {
		abs, err := filepath.Abs(nameOrPath)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(abs)
		return &workspace.Skill{
			Name:     filepath.Base(dir),
			Status:   "file",
			SpecPath: abs,
			DocPath:  filepath.Join(dir, workspace.DocFileName),
		}, nil
	}
	return ws.Find(nameOrPath)
}

func openDiary(ws *workspace.Workspace) (*diary.Store, func(), error) {
	db, err := diary.Open(ws.DiaryPath())
	if err != nil {
		return nil, nil, err
	}
	return diary.NewStore(db), func() { _ = db.Close() }, nil
}
