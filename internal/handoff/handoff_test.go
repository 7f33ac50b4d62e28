package handoff

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "handoff.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPeekOnEmptyStore(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.Peek(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Take(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTakeConsumesOnce(t *testing.T) {
	store := openTestStore(t)
	store.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Entry{Transcript: "  [00:01] [Speaker 1]: hello \n", Title: " Standup ", Source: "audio"}))

	peeked, ok, err := store.Peek(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[00:01] [Speaker 1]: hello", peeked.Transcript)
	assert.Equal(t, "Standup", peeked.Title)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), peeked.StoredAt)

	taken, ok, err := store.Take(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, peeked, taken)

	_, ok, err = store.Take(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutReplacesPreviousEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, Entry{Transcript: "first"}))
	require.NoError(t, store.Put(ctx, Entry{Transcript: "second"}))

	entry, ok, err := store.Peek(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", entry.Transcript)
}

func TestPutRejectsEmptyTranscript(t *testing.T) {
	store := openTestStore(t)
	require.ErrorIs(t, store.Put(context.Background(), Entry{Transcript: " \n "}), ErrEmptyTranscript)
}

func TestEntrySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), Entry{Transcript: "persisted"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	entry, ok, err := reopened.Peek(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", entry.Transcript)
}
