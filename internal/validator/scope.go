package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ScanScope selects which string leaves of a spec document the pattern
// scan visits. Scanned-field paths support a single-level [*] wildcard
// matching any list index; ignored fields are exact paths.
type ScanScope struct {
	ScannedFields []ScopeField    `yaml:"scanned_fields"`
	IgnoredFields []ScopeField    `yaml:"ignored_fields"`
	IgnoreRules   []IgnorePattern `yaml:"ignore_patterns"`
	Thresholds    Thresholds      `yaml:"thresholds"`

	globs     []string
	stripping []*regexp.Regexp
}

type ScopeField struct {
	Path     string `yaml:"path"`
	Priority string `yaml:"priority,omitempty"`
}

type IgnorePattern struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type,omitempty"`
}

type Thresholds struct {
	MaxErrors   int `yaml:"max_errors"`
	MaxWarnings int `yaml:"max_warnings"`
}

// DefaultScanScope scans the high-signal prose fields and strips fenced
// and inline code before matching.
func DefaultScanScope() *ScanScope {
	return &ScanScope{
		ScannedFields: []ScopeField{
			{Path: "steps[*].action", Priority: "high"},
			{Path: "skill.purpose", Priority: "high"},
			{Path: "inputs[*].description", Priority: "medium"},
		},
		IgnoredFields: []ScopeField{
			{Path: "spec_version"},
			{Path: "skill.name"},
			{Path: "skill.version"},
		},
		IgnoreRules: []IgnorePattern{
			{Pattern: "```[\\s\\S]*?```", Type: "regex"},
			{Pattern: "`[^`]+`", Type: "regex"},
		},
		Thresholds: Thresholds{MaxErrors: 0, MaxWarnings: 10},
	}
}

// LoadScanScope reads scan_scope.yaml from dir, falling back to the
// default scope when the directory or file is absent.
func LoadScanScope(dir string) (*ScanScope, error) {
	if dir == "" {
		return DefaultScanScope(), nil
	}
	path := filepath.Join(dir, "scan_scope.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultScanScope(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scan scope: %w", err)
	}
	scope := &ScanScope{}
	if err := yaml.Unmarshal(data, scope); err != nil {
		return nil, fmt.Errorf("parse scan scope %s: %w", path, err)
	}
	return scope, nil
}

// pathToGlob converts a dotted field path with [*]/[N] index segments
// into a slash glob, e.g. "steps[*].action" -> "steps/*/action" and
// "steps[2].action" -> "steps/2/action".
func pathToGlob(path string) string {
	s := strings.ReplaceAll(path, "[*]", "/*")
	s = indexSegmentRE.ReplaceAllString(s, "/$1")
	return strings.ReplaceAll(s, ".", "/")
}

var indexSegmentRE = regexp.MustCompile(`\[(\d+)\]`)

func (s *ScanScope) compile() {
	if s.globs == nil {
		for _, f := range s.ScannedFields {
			s.globs = append(s.globs, pathToGlob(f.Path))
		}
	}
	if s.stripping == nil {
		s.stripping = []*regexp.Regexp{}
		for _, ig := range s.IgnoreRules {
			re, err := regexp.Compile("(?m)" + ig.Pattern)
			if err != nil {
				continue
			}
			s.stripping = append(s.stripping, re)
		}
	}
}

// Strip removes ignored spans (code fences, inline code) from text.
func (s *ScanScope) Strip(text string) string {
	s.compile()
	for _, re := range s.stripping {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// ScanField is a selected string leaf of the spec tree.
type ScanField struct {
	Path  string
	Value string
}

// Fields walks the document and returns the string leaves selected by
// the scope, in deterministic order (map keys sorted). With no
// scanned_fields configured every non-ignored string leaf is selected.
func (s *ScanScope) Fields(raw map[string]any) []ScanField {
	s.compile()

	ignored := map[string]bool{}
	for _, f := range s.IgnoredFields {
		ignored[f.Path] = true
	}

	var out []ScanField
	var walk func(v any, path, glob string)
	walk = func(v any, path, glob string) {
		if ignored[path] {
			return
		}
		switch t := v.(type) {
		case string:
			if s.selected(glob) {
				out = append(out, ScanField{Path: path, Value: t})
			}
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				childPath := k
				childGlob := k
				if path != "" {
					childPath = path + "." + k
					childGlob = glob + "/" + k
				}
				walk(t[k], childPath, childGlob)
			}
		case []any:
			for i, item := range t {
				walk(item, fmt.Sprintf("%s[%d]", path, i), fmt.Sprintf("%s/%d", glob, i))
			}
		}
	}
	walk(raw, "", "")
	return out
}

func (s *ScanScope) selected(glob string) bool {
	if len(s.globs) == 0 {
		return true
	}
	for _, g := range s.globs {
		if ok, err := doublestar.Match(g, glob); err == nil && ok {
			return true
		}
	}
	return false
}
