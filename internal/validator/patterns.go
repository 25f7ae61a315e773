package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Pattern is one forbidden-pattern rule. Literal patterns match by
// case-insensitive substring containment; regex patterns by
// case-insensitive search.
type Pattern struct {
	Pattern  string `mapstructure:"pattern" json:"pattern"`
	Category string `mapstructure:"category" json:"category"`
	Severity string `mapstructure:"severity" json:"severity"`
	Context  string `mapstructure:"context" json:"context"`
	Fix      string `mapstructure:"fix" json:"fix"`
	IsRegex  bool   `mapstructure:"regex" json:"regex,omitempty"`

	re *regexp.Regexp
}

// Match reports the matched text with its original casing, or "" when
// the pattern does not occur. Literal patterns are quoted and matched
// through the same case-insensitive regex path as regex patterns:
// lowercasing the text and reusing byte offsets is not safe, since
// case folding can change rune widths.
func (p *Pattern) Match(text string) string {
	if p.re == nil {
		expr := p.Pattern
		if !p.IsRegex {
			expr = regexp.QuoteMeta(p.Pattern)
		}
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return ""
		}
		p.re = re
	}
	return p.re.FindString(text)
}

type patternFile struct {
	Patterns []map[string]any `yaml:"patterns"`
}

// LoadPatterns reads forbidden_patterns_<lang>.yaml for every requested
// language from dir and returns their union in file order. A missing
// language file is skipped; when no file yields any pattern the builtin
// English set is returned.
func LoadPatterns(dir string, languages []string) ([]Pattern, error) {
	if dir == "" {
		return DefaultPatterns(), nil
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	var patterns []Pattern
	for _, lang := range languages {
		path := filepath.Join(dir, fmt.Sprintf("forbidden_patterns_%s.yaml", lang))
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read patterns: %w", err)
		}
		var file patternFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse patterns %s: %w", path, err)
		}
		for _, item := range file.Patterns {
			p := Pattern{Severity: "warning", Context: "any", Fix: "Review and revise"}
			if err := mapstructure.Decode(item, &p); err != nil {
				return nil, fmt.Errorf("decode pattern in %s: %w", path, err)
			}
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return DefaultPatterns(), nil
	}
	return patterns, nil
}

// DefaultPatterns is the builtin English pattern set.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Pattern: "as needed", Category: "VAGUE_CONDITION", Severity: "error",
			Context: "instruction", Fix: "Replace with explicit condition"},
		{Pattern: "if appropriate", Category: "VAGUE_CONDITION", Severity: "error",
			Context: "instruction", Fix: "Define what 'appropriate' means"},
		{Pattern: "try to", Category: "VAGUE_ACTION", Severity: "error",
			Context: "action", Fix: "Remove 'try to' and state definite action"},
		{Pattern: `\bhelp\b`, Category: "VAGUE_ACTION", Severity: "error",
			Context: "action", Fix: "Replace with specific action", IsRegex: true},
		{Pattern: `\bgenerally\b`, Category: "VAGUE_DEGREE", Severity: "error",
			Context: "any", Fix: "Remove or specify exact cases", IsRegex: true},
		{Pattern: `\btypically\b`, Category: "VAGUE_DEGREE", Severity: "error",
			Context: "any", Fix: "Remove or specify exact cases", IsRegex: true},
		{Pattern: `\bmight\b`, Category: "HEDGE_WORDS", Severity: "warning",
			Context: "any", Fix: "State definite outcome", IsRegex: true},
		{Pattern: `\bcould\b`, Category: "HEDGE_WORDS", Severity: "warning",
			Context: "any", Fix: "State definite outcome", IsRegex: true},
	}
}

// DocPatterns is the relaxed set applied to rendered documentation:
// placeholder tokens are errors, vague language downgrades to warnings,
// and an empty section (heading followed directly by another heading)
// is flagged.
func DocPatterns() []Pattern {
	return []Pattern{
		{Pattern: "TODO", Category: "INCOMPLETE_CONTENT", Severity: "error",
			Context: "any", Fix: "Complete the TODO item"},
		{Pattern: "TBD", Category: "INCOMPLETE_CONTENT", Severity: "error",
			Context: "any", Fix: "Determine and specify the content"},
		{Pattern: "FIXME", Category: "INCOMPLETE_CONTENT", Severity: "error",
			Context: "any", Fix: "Fix the issue before publishing"},
		{Pattern: "as needed", Category: "VAGUE_LANGUAGE", Severity: "warning",
			Context: "instruction", Fix: "Consider being more specific"},
		{Pattern: "if appropriate", Category: "VAGUE_LANGUAGE", Severity: "warning",
			Context: "instruction", Fix: "Consider defining criteria"},
		{Pattern: `##\s+\w+\s*\n\s*\n##`, Category: "EMPTY_SECTION", Severity: "warning",
			Context: "structure", Fix: "Add content to the section", IsRegex: true},
	}
}
