// Package i18n provides localized messages for reports and the CLI.
// English and Chinese catalogs are builtin; a messages directory can
// override either.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

// PatternsUnion selects the union of every supported pattern language.
const PatternsUnion = "union"

var supported = []language.Tag{
	language.English,
	language.Chinese,
}

var supportedMatcher = language.NewMatcher(supported)

// Context carries the locale selection for one operation. The zero
// value is not usable; build it with NewContext so unknown locales
// collapse to the defaults.
type Context struct {
	ReportLocale   string
	ContentLocale  string
	PatternsLocale string
	TemplateLocale string
}

// NewContext normalizes the given locales. Report, content and
// template locales fall back to English; the patterns locale falls
// back to the union of all supported languages.
func NewContext(report, content, patterns, template string) Context {
	return Context{
		ReportLocale:   NormalizeLocale(report),
		ContentLocale:  NormalizeLocale(content),
		PatternsLocale: normalizePatterns(patterns),
		TemplateLocale: NormalizeLocale(template),
	}
}

// DefaultContext is English reports with the union pattern set.
func DefaultContext() Context {
	return NewContext("", "", "", "")
}

// NormalizeLocale maps an arbitrary locale string onto a supported
// base language, e.g. "zh-Hans-CN" -> "zh". Unrecognized input maps to
// English.
func NormalizeLocale(locale string) string {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := supportedMatcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	base, _ := supported[idx].Base()
	return base.String()
}

func normalizePatterns(locale string) string {
	if locale == "" || locale == PatternsUnion {
		return PatternsUnion
	}
	return NormalizeLocale(locale)
}

// PatternLanguages expands the patterns locale into the language list
// handed to the pattern loader.
func (c Context) PatternLanguages() []string {
	if c.PatternsLocale == PatternsUnion {
		return []string{"en", "zh"}
	}
	return []string{c.PatternsLocale}
}

// Catalog resolves message keys against per-locale message trees. A
// messages directory may provide <locale>.yaml overrides; otherwise
// the builtin catalogs serve every lookup.
type Catalog struct {
	dir    string
	loaded map[string]map[string]any
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir, loaded: map[string]map[string]any{}}
}

// T resolves a dot-separated message key for a locale, substituting
// {name} placeholders from args. A key missing from a non-English
// catalog falls back to English; a key missing everywhere resolves to
// the key itself so reports never lose information.
func (c *Catalog) T(locale, key string, args map[string]any) string {
	msg, ok := c.lookup(NormalizeLocale(locale), key)
	if !ok && NormalizeLocale(locale) != DefaultLocale {
		msg, ok = c.lookup(DefaultLocale, key)
	}
	if !ok {
		return key
	}
	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprintf("%v", value))
	}
	return msg
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	catalog := c.catalog(locale)
	var current any = catalog
	for _, part := range strings.Split(key, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = node[part]
		if !ok {
			return "", false
		}
	}
	msg, ok := current.(string)
	return msg, ok
}

func (c *Catalog) catalog(locale string) map[string]any {
	if cached, ok := c.loaded[locale]; ok {
		return cached
	}
	catalog := builtinMessages(locale)
	if c.dir != "" {
		data, err := os.ReadFile(filepath.Join(c.dir, locale+".yaml"))
		if err == nil {
			var override map[string]any
			if yaml.Unmarshal(data, &override) == nil && len(override) > 0 {
				catalog = override
			}
		}
	}
	c.loaded[locale] = catalog
	return catalog
}

func builtinMessages(locale string) map[string]any {
	if locale == "zh" {
		return chineseMessages
	}
	return englishMessages
}

var englishMessages = map[string]any{
	"validation": map[string]any{
		"passed": "Validation PASSED",
		"failed": "Validation FAILED",
		"summary": map[string]any{
			"total_errors":        "Total Errors: {count}",
			"total_warnings":      "Total Warnings: {count}",
			"structural_coverage": "Structural Coverage: {score}%",
			"behavioral_coverage": "Behavioral Coverage: {score}%",
		},
	},
	"quality": map[string]any{
		"title":             "Quality Analysis",
		"forbidden_pattern": "Forbidden pattern detected: {pattern}",
	},
	"coverage": map[string]any{
		"title":     "Coverage Analysis",
		"gap_found": "Coverage gap: {item}",
	},
	"compliance": map[string]any{
		"title":          "Compliance Report",
		"policy_checked": "Policies checked: {policies}",
		"violation":      "[{severity}] {rule}: {description}",
	},
	"diary": map[string]any{
		"title":        "Diary Summary",
		"total_events": "Total Events: {count}",
		"no_events":    "No events recorded",
	},
	"cli": map[string]any{
		"skill_not_found": "Skill '{name}' not found",
		"file_not_found":  "File not found: {path}",
		"created":         "Created: {path}",
		"generated":       "Generated: {path}",
	},
}

var chineseMessages = map[string]any{
	"validation": map[string]any{
		"passed": "验证通过",
		"failed": "验证失败",
		"summary": map[string]any{
			"total_errors":        "错误总数: {count}",
			"total_warnings":      "警告总数: {count}",
			"structural_coverage": "结构覆盖率: {score}%",
			"behavioral_coverage": "行为覆盖率: {score}%",
		},
	},
	"quality": map[string]any{
		"title":             "质量分析",
		"forbidden_pattern": "检测到禁止模式: {pattern}",
	},
	"coverage": map[string]any{
		"title":     "覆盖率分析",
		"gap_found": "覆盖缺口: {item}",
	},
	"compliance": map[string]any{
		"title":          "合规报告",
		"policy_checked": "已检查策略: {policies}",
		"violation":      "[{severity}] {rule}: {description}",
	},
	"diary": map[string]any{
		"title":        "日志摘要",
		"total_events": "总事件数: {count}",
		"no_events":    "无记录事件",
	},
	"cli": map[string]any{
		"skill_not_found": "未找到技能 '{name}'",
		"file_not_found":  "文件未找到: {path}",
		"created":         "已创建: {path}",
		"generated":       "已生成: {path}",
	},
}
