package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/skillspec/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws, err := Init(root)
	require.NoError(t, err)
	assert.DirExists(t, ws.SkillsDir())
	assert.DirExists(t, ws.DraftsDir())
	assert.DirExists(t, ws.PoliciesDir())

	// Discovery walks upward from a nested directory.
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	found, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, ws.Root, found.Root)
}

func TestFindWithoutWorkspace(t *testing.T) {
	t.Parallel()

	_, err := Find(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skillspec init")
}

func TestScaffoldProducesValidSpec(t *testing.T) {
	t.Parallel()

	ws, err := Init(t.TempDir())
	require.NoError(t, err)

	skill, err := ws.Scaffold("my-new-skill", "platform")
	require.NoError(t, err)
	assert.Equal(t, "draft", skill.Status)

	raw, err := spec.ParseFile(skill.SpecPath)
	require.NoError(t, err)
	built, problems := spec.Build(raw)
	require.Empty(t, problems)
	assert.Equal(t, "my-new-skill", built.Skill.Name)
	assert.Equal(t, "platform", built.Skill.Owner)
	require.Len(t, built.Rules, 1)
	assert.Equal(t, "rule_empty_input", built.Rules[0].ID)

	// A second scaffold refuses to overwrite.
	_, err = ws.Scaffold("my-new-skill", "platform")
	require.Error(t, err)
}

func TestFindSkillDraftShadowsPublished(t *testing.T) {
	t.Parallel()

	ws, err := Init(t.TempDir())
	require.NoError(t, err)

	write := func(base, name string) {
		dir := filepath.Join(base, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, SpecFileName), []byte("skill: {}\n"), 0o644))
	}
	write(ws.SkillsDir(), "shared-name")
	write(ws.DraftsDir(), "shared-name")
	write(ws.SkillsDir(), "published-only")

	skill, err := ws.Find("shared-name")
	require.NoError(t, err)
	assert.Equal(t, "draft", skill.Status)

	skill, err = ws.Find("published-only")
	require.NoError(t, err)
	assert.Equal(t, "published", skill.Status)
	assert.False(t, skill.HasDoc)

	_, err = ws.Find("missing")
	require.Error(t, err)
}

func TestListSortsAndDeduplicates(t *testing.T) {
	t.Parallel()

	ws, err := Init(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha"} {
		_, err := ws.Scaffold(name, "qa")
		require.NoError(t, err)
	}
	dir := filepath.Join(ws.SkillsDir(), "alpha")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SpecFileName), []byte("skill: {}\n"), 0o644))

	skills, err := ws.List()
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "alpha", skills[0].Name)
	assert.Equal(t, "draft", skills[0].Status, "draft shadows the published copy")
	assert.Equal(t, "zeta", skills[1].Name)
}
