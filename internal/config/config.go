// Package config provides project configuration loading for skillspec.
package config

// Config is the root configuration stored in .skillspec/skillspec.yaml.
type Config struct {
	I18n       I18nConfig       `json:"i18n"                 mapstructure:"i18n"`
	Validation ValidationConfig `json:"validation,omitempty" mapstructure:"validation"`
	Retention  RetentionPolicy  `json:"retention,omitempty"  mapstructure:"retention"`
}

// I18nConfig selects locales for reports, content, patterns, and
// templates.
type I18nConfig struct {
	ReportLocale   string `json:"report_locale,omitempty"   mapstructure:"report_locale"`
	ContentLocale  string `json:"content_locale,omitempty"  mapstructure:"content_locale"`
	PatternsLocale string `json:"patterns_locale,omitempty" mapstructure:"patterns_locale"`
	TemplateLocale string `json:"template_locale,omitempty" mapstructure:"template_locale"`
}

// ValidationConfig points at validation inputs beyond the builtins.
type ValidationConfig struct {
	SchemaPath string   `json:"schema_path,omitempty" mapstructure:"schema_path"`
	Policies   []string `json:"policies,omitempty"    mapstructure:"policies"`
}

// RetentionPolicy defines how long diary entries are kept.
type RetentionPolicy struct {
	KeepDays int `json:"keep_days,omitempty" mapstructure:"keep_days"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		I18n: I18nConfig{
			ReportLocale:   "en",
			ContentLocale:  "en",
			PatternsLocale: "union",
			TemplateLocale: "en",
		},
		Retention: RetentionPolicy{KeepDays: 90},
	}
}
