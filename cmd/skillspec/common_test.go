package main

import (
	"path/filepath"
	"testing"

	"github.com/metalagman/skillspec/internal/config"
	"github.com/metalagman/skillspec/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSpecAcceptsPathAndName(t *testing.T) {
	ws, err := workspace.Init(t.TempDir())
	require.NoError(t, err)

	created, err := ws.Scaffold("demo-skill", "qa")
	require.NoError(t, err)

	byName, err := resolveSpec(ws, "demo-skill")
	require.NoError(t, err)
	assert.Equal(t, created.SpecPath, byName.SpecPath)
	assert.Equal(t, "draft", byName.Status)

	byPath, err := resolveSpec(ws, created.SpecPath)
	require.NoError(t, err)
	assert.Equal(t, created.SpecPath, byPath.SpecPath)
	assert.Equal(t, "demo-skill", byPath.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(created.SpecPath), workspace.DocFileName), byPath.DocPath)

	_, err = resolveSpec(ws, "missing-skill")
	require.Error(t, err)
}

func TestLocaleContextFlagOverridesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.I18n.ReportLocale = "zh"
	cfg.I18n.PatternsLocale = "zh"

	ctx := localeContext(cfg)
	assert.Equal(t, "zh", ctx.ReportLocale)
	assert.Equal(t, []string{"zh"}, ctx.PatternLanguages())

	reportLocale = "en"
	patternsLocale = "union"
	t.Cleanup(func() {
		reportLocale = ""
		patternsLocale = ""
	})

	ctx = localeContext(cfg)
	assert.Equal(t, "en", ctx.ReportLocale)
	assert.Equal(t, []string{"en", "zh"}, ctx.PatternLanguages())
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "passed", outcome(true))
	assert.Equal(t, "failed", outcome(false))
}
