package tioanime

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pevans/tioanime/library"
)

// Test helper: create a checker over the fake site and a temporary library
func createTestChecker(t *testing.T) (*Checker, *library.Store) {
	t.Helper()

	store, err := library.NewStore(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err, "should create library store")
	t.Cleanup(func() { store.Close() })

	client := newTestClient(t, newFakeSite(t))
	return NewChecker(client, store, nil, nil), store
}

// TestChecker_Follow verifies the stored entry carries the site's name and
// chapter count
func TestChecker_Follow(t *testing.T) {
	checker, store := createTestChecker(t)

	entry, err := checker.Follow(context.Background(), "naruto")
	require.NoError(t, err)
	assert.Equal(t, "Naruto", entry.Name)
	assert.Equal(t, 220, entry.ChapterCount)

	_, err = checker.Follow(context.Background(), "naruto")
	assert.ErrorIs(t, err, library.ErrDuplicateSlug)

	entries, err := store.List(library.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestChecker_Follow_Missing verifies unknown titles are not added
func TestChecker_Follow_Missing(t *testing.T) {
	checker, store := createTestChecker(t)

	_, err := checker.Follow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, library.ErrEntryNotFound)
}

// TestChecker_Check verifies new chapters are reported and stored while
// failures are recorded per entry
func TestChecker_Check(t *testing.T) {
	checker, store := createTestChecker(t)

	_, err := store.Add("naruto", "Old name", 200)
	require.NoError(t, err)
	_, err = store.Add("missing", "Gone", 5)
	require.NoError(t, err)

	results, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "naruto", results[0].Slug)
	assert.Equal(t, 200, results[0].Previous)
	assert.Equal(t, 220, results[0].Current)
	assert.Equal(t, 20, results[0].NewChapters())
	assert.NoError(t, results[0].Err)

	assert.ErrorIs(t, results[1].Err, ErrNotFound)
	assert.Equal(t, 0, results[1].NewChapters())
	assert.NotEmpty(t, results[1].Error)

	updated := Updated(results)
	require.Len(t, updated, 1)
	assert.Equal(t, "naruto", updated[0].Slug)

	naruto, err := store.Get("naruto")
	require.NoError(t, err)
	assert.Equal(t, 220, naruto.ChapterCount)
	assert.Equal(t, "Naruto", naruto.Name)
	assert.NotNil(t, naruto.CheckedAt)
	assert.Nil(t, naruto.LastError)

	missing, err := store.Get("missing")
	require.NoError(t, err)
	assert.Equal(t, 5, missing.ChapterCount)
	require.NotNil(t, missing.LastError)
	assert.Equal(t, "[ERROR] Not Found.", *missing.LastError)
}

// TestChecker_Check_NeverDecreases verifies a lower count on the site does
// not lower the stored count
func TestChecker_Check_NeverDecreases(t *testing.T) {
	checker, store := createTestChecker(t)

	_, err := store.Add("naruto", "Naruto", 500)
	require.NoError(t, err)

	results, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].NewChapters())

	naruto, err := store.Get("naruto")
	require.NoError(t, err)
	assert.Equal(t, 500, naruto.ChapterCount)
}

func TestChecker_Check_Cancelled(t *testing.T) {
	checker, store := createTestChecker(t)

	_, err := store.Add("naruto", "Naruto", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := checker.Check(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestCheckResult_NewChapters(t *testing.T) {
	assert.Equal(t, 3, CheckResult{Previous: 2, Current: 5}.NewChapters())
	assert.Equal(t, 0, CheckResult{Previous: 5, Current: 2}.NewChapters())
	assert.Equal(t, 0, CheckResult{Previous: 5, Current: 5}.NewChapters())
}
