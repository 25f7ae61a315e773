package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en", NormalizeLocale(""))
	assert.Equal(t, "en", NormalizeLocale("en-US"))
	assert.Equal(t, "zh", NormalizeLocale("zh"))
	assert.Equal(t, "zh", NormalizeLocale("zh-Hans-CN"))
	assert.Equal(t, "en", NormalizeLocale("not a locale"))
}

func TestNewContextDefaults(t *testing.T) {
	t.Parallel()

	ctx := NewContext("", "", "", "")
	assert.Equal(t, "en", ctx.ReportLocale)
	assert.Equal(t, PatternsUnion, ctx.PatternsLocale)
	assert.Equal(t, []string{"en", "zh"}, ctx.PatternLanguages())

	zh := NewContext("zh-CN", "zh", "zh", "zh")
	assert.Equal(t, "zh", zh.ReportLocale)
	assert.Equal(t, []string{"zh"}, zh.PatternLanguages())
}

func TestCatalogLookupAndArgs(t *testing.T) {
	t.Parallel()

	cat := NewCatalog("")
	assert.Equal(t, "Validation PASSED", cat.T("en", "validation.passed", nil))
	assert.Equal(t, "验证通过", cat.T("zh", "validation.passed", nil))
	assert.Equal(t, "Total Errors: 3",
		cat.T("en", "validation.summary.total_errors", map[string]any{"count": 3}))
}

func TestCatalogFallsBackToKey(t *testing.T) {
	t.Parallel()

	cat := NewCatalog("")
	assert.Equal(t, "no.such.key", cat.T("en", "no.such.key", nil))
	assert.Equal(t, "no.such.key", cat.T("zh", "no.such.key", nil))
}

func TestCatalogDirectoryOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	override := "validation:\n  passed: All green\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte(override), 0o644))

	cat := NewCatalog(dir)
	assert.Equal(t, "All green", cat.T("en", "validation.passed", nil))

	// Locales without an override file keep the builtin catalog.
	assert.Equal(t, "验证通过", cat.T("zh", "validation.passed", nil))
}
