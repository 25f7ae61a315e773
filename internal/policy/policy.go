// Package policy loads compliance policy files: ordered lists of rule
// predicates with severities, evaluated against a normalized spec by
// the compliance layer. Multiple files are additive.
package policy

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Predicate is a boolean check over the normalized spec document.
// Supported ops: exists, absent, equals, not_equals, matches, contains,
// min_count, max_count, min_length.
type Predicate struct {
	Path  string `mapstructure:"path" json:"path"`
	Op    string `mapstructure:"op" json:"op"`
	Value any    `mapstructure:"value" json:"value,omitempty"`
}

// Rule is one policy rule.
type Rule struct {
	ID          string    `mapstructure:"id" json:"id"`
	Severity    string    `mapstructure:"severity" json:"severity"`
	Description string    `mapstructure:"description" json:"description,omitempty"`
	Predicate   Predicate `mapstructure:"predicate" json:"predicate"`
}

// Policy is one policy file.
type Policy struct {
	Name  string `mapstructure:"name" json:"name"`
	Rules []Rule `mapstructure:"rules" json:"rules"`
}

// Load reads one policy file. Unknown keys are rejected so a typo in a
// policy file fails loudly instead of silently passing every spec.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}

	p := &Policy{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      p,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode policy %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = path
	}
	for i := range p.Rules {
		if p.Rules[i].Severity == "" {
			p.Rules[i].Severity = "error"
		}
	}
	return p, nil
}

// LoadAll loads every given policy file; all rules apply additively.
func LoadAll(paths []string) ([]*Policy, error) {
	var policies []*Policy
	for _, path := range paths {
		p, err := Load(path)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, nil
}
