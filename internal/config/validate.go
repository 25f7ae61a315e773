package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// ValidateSettings checks raw project settings against the embedded
// JSON schema, so a typo in skillspec.yaml surfaces before any command
// runs with half-applied configuration. Findings are reported per
// field, sorted, in one error.
func ValidateSettings(settings map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(settings),
	)
	if err != nil {
		return fmt.Errorf("validate skillspec.yaml: %w", err)
	}
	if result.Valid() {
		return nil
	}

	findings := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		field := schemaErr.Field()
		if field == "(root)" {
			field = "skillspec.yaml"
		}
		findings = append(findings, field+": "+schemaErr.Description())
	}
	sort.Strings(findings)

	return fmt.Errorf("invalid skillspec.yaml: %s", strings.Join(findings, "; "))
}
