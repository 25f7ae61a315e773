package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocCheckerPlaceholdersAreErrors(t *testing.T) {
	t.Parallel()

	content := "# My Skill\n\n## Purpose\n\nTODO: write this\n"
	result := NewDocChecker().Check(content)

	require.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "INCOMPLETE_CONTENT", v.Category)
	assert.Equal(t, "error", v.Severity)
	assert.Equal(t, 5, v.Line)
}

func TestDocCheckerVagueLanguageWarnsOnly(t *testing.T) {
	t.Parallel()

	content := "# My Skill\n\nRun the cleanup as needed.\n"
	result := NewDocChecker().Check(content)

	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Warnings)
	assert.Equal(t, 1, result.CategoryCounts["VAGUE_LANGUAGE"])
}

func TestDocCheckerEmptySection(t *testing.T) {
	t.Parallel()

	content := "## Purpose\n\n## Inputs\n\ncontent\n"
	result := NewDocChecker().Check(content)

	assert.Equal(t, 1, result.CategoryCounts["EMPTY_SECTION"])
}

func TestDocCheckerIgnoresCodeSpans(t *testing.T) {
	t.Parallel()

	content := "# Skill\n\nUse `TODO_MARKER` tokens.\n\n```\nTBD placeholder inside fence\n```\n\nDone.\n"
	result := NewDocChecker().Check(content)
	assert.True(t, result.Valid, "violations: %v", result.Violations)
	assert.Empty(t, result.Violations)
}

func TestDocCheckerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "SKILL.md")
	require.NoError(t, os.WriteFile(path, []byte("# Fine\n\nAll good here.\n"), 0o644))

	result := NewDocChecker().CheckFile(path)
	assert.True(t, result.Valid)

	missing := NewDocChecker().CheckFile(filepath.Join(dir, "nope.md"))
	require.False(t, missing.Valid)
	require.Len(t, missing.Violations, 1)
	assert.Equal(t, "FILE_ERROR", missing.Violations[0].Category)
}
