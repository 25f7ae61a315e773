package bundle

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skillDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spec.yaml"), []byte("skill: {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# Skill\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	return dir
}

func TestBuildBundle(t *testing.T) {
	t.Parallel()

	data, manifest, err := Build("my-skill", "1.0.0", skillDir(t))
	require.NoError(t, err)
	assert.Equal(t, "my-skill", manifest.Skill)
	assert.Equal(t, "1.0.0", manifest.Version)

	// Hidden files are excluded; digests match the content.
	require.Len(t, manifest.Files, 2)
	sum := sha256.Sum256([]byte("skill: {}\n"))
	assert.Equal(t, hex.EncodeToString(sum[:]), manifest.Files["my-skill/spec.yaml"])

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["my-skill/spec.yaml"])
	assert.True(t, names["my-skill/SKILL.md"])
	assert.True(t, names["my-skill/manifest.json"])
	assert.False(t, names["my-skill/.hidden"])
}

func TestBuildEmptyDirFails(t *testing.T) {
	t.Parallel()

	_, _, err := Build("empty", "", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to bundle")
}

func TestWriteAndReadManifest(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "my-skill.zip")
	written, err := Write("my-skill", "2.1.0", skillDir(t), out)
	require.NoError(t, err)

	read, err := ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, written, read)
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	dir := skillDir(t)
	_, first, err := Build("my-skill", "1.0.0", dir)
	require.NoError(t, err)
	_, second, err := Build("my-skill", "1.0.0", dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
