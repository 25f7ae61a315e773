package validator

import (
	"os"
	"regexp"
	"strings"
)

var (
	fencedCodeRE = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCodeRE = regexp.MustCompile("`[^`]+`")
)

// DocChecker is the relaxed quality checker for rendered SKILL.md
// prose. Unresolved placeholder tokens are errors; vague language only
// warns here.
type DocChecker struct {
	Patterns []Pattern
}

func NewDocChecker() *DocChecker {
	return &DocChecker{Patterns: DocPatterns()}
}

// Check scans markdown content. Code fences and inline code are
// stripped before matching; reported line numbers refer to the
// original content.
func (c *DocChecker) Check(content string) QualityResult {
	result := QualityResult{Valid: true, CategoryCounts: map[string]int{}}

	stripped := fencedCodeRE.ReplaceAllString(content, "")
	stripped = inlineCodeRE.ReplaceAllString(stripped, "")

	for i := range c.Patterns {
		p := &c.Patterns[i]
		matched := p.Match(stripped)
		if matched == "" {
			continue
		}
		result.Add(QualityViolation{
			Path:        "SKILL.md",
			Pattern:     p.Pattern,
			MatchedText: matched,
			Category:    p.Category,
			Severity:    p.Severity,
			Fix:         p.Fix,
			Line:        lineOf(content, matched),
		})
	}
	return result
}

// CheckFile reads and checks a markdown file. An unreadable file is a
// single error finding, not a hard failure.
func (c *DocChecker) CheckFile(path string) QualityResult {
	data, err := os.ReadFile(path)
	if err != nil {
		result := QualityResult{Valid: true, CategoryCounts: map[string]int{}}
		result.Add(QualityViolation{
			Path:        path,
			Pattern:     "file_not_found",
			MatchedText: err.Error(),
			Category:    "FILE_ERROR",
			Severity:    "error",
			Fix:         "Check the file path",
		})
		return result
	}
	return c.Check(string(data))
}

func lineOf(content, match string) int {
	needle := strings.ToLower(match)
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			return i + 1
		}
	}
	return 0
}
