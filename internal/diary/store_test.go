package diary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "diary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestAppendAndEntries(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{
		Skill: "extract-api-contract", Op: "validate", Outcome: "failed", Errors: 2,
	}))
	require.NoError(t, store.Append(ctx, Entry{
		Skill: "extract-api-contract", Op: "validate", Outcome: "passed", Warnings: 1,
	}))
	require.NoError(t, store.Append(ctx, Entry{
		Skill: "other-skill", Op: "generate", Outcome: "ok", Detail: "SKILL.md written",
	}))

	entries, err := store.Entries(ctx, "extract-api-contract", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "passed", entries[0].Outcome)
	assert.Equal(t, 1, entries[0].Warnings)
	assert.Equal(t, "failed", entries[1].Outcome)
	assert.Equal(t, 2, entries[1].Errors)
	assert.NotEmpty(t, entries[0].TS)

	all, err := store.Entries(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "SKILL.md written", all[0].Detail)

	limited, err := store.Entries(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{Skill: "s", Op: "validate", Outcome: "passed"}))
	require.NoError(t, store.Append(ctx, Entry{Skill: "s", Op: "validate", Outcome: "failed"}))
	require.NoError(t, store.Append(ctx, Entry{Skill: "s", Op: "generate", Outcome: "ok"}))

	sum, err := store.Summarize(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 1, Generated: 1}, sum)
}

func TestPrune(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{Skill: "s", Op: "validate", Outcome: "passed"}))

	// Fresh entries survive a retention window.
	n, err := store.Prune(ctx, 30)
	require.NoError(t, err)
	assert.Zero(t, n)

	// keepDays <= 0 never deletes.
	n, err = store.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := store.Entries(ctx, "s", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "diary.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening runs migrations again without error.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
