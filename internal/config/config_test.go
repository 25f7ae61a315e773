package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "en", cfg.I18n.ReportLocale)
	assert.Equal(t, "union", cfg.I18n.PatternsLocale)
	assert.Equal(t, 90, cfg.Retention.KeepDays)
}

func TestValidateSettingsAcceptsFullConfig(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"i18n": map[string]any{
			"report_locale":   "zh",
			"patterns_locale": "union",
		},
		"validation": map[string]any{
			"schema_path": "schema/skill-spec.json",
			"policies":    []any{"policies/org.yaml"},
		},
		"retention": map[string]any{
			"keep_days": 30,
		},
	}

	require.NoError(t, ValidateSettings(settings))
}

func TestValidateSettingsRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{"i18nn": map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid skillspec.yaml")
	assert.Contains(t, err.Error(), "i18nn")
}

func TestValidateSettingsRejectsBadLocale(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{
		"i18n": map[string]any{"report_locale": "klingon"},
	})
	require.Error(t, err)
}

func TestValidateSettingsRejectsNegativeRetention(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{
		"retention": map[string]any{"keep_days": -1},
	})
	require.Error(t, err)
}
