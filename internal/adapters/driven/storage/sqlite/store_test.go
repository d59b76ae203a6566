package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := domain.IngestedDocument{
		ID:         "doc-1",
		Filename:   "budgeting.txt",
		Path:       "/docs/budgeting.txt",
		ChunkCount: 3,
		IngestedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := domain.IngestedDocument{
		ID:         "doc-2",
		Filename:   "investing.txt",
		Path:       "/docs/investing.txt",
		ChunkCount: 5,
		IngestedAt: time.Now().UTC(),
	}

	require.NoError(t, store.Record(ctx, older))
	require.NoError(t, store.Record(ctx, newer))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].ID)
	assert.Equal(t, "doc-1", docs[1].ID)
	assert.Equal(t, 3, docs[1].ChunkCount)
}

func TestRecord_ReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := domain.IngestedDocument{
		ID:         "doc-1",
		Filename:   "guide.txt",
		Path:       "/docs/guide.txt",
		ChunkCount: 2,
		IngestedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Record(ctx, doc))

	doc.ChunkCount = 7
	require.NoError(t, store.Record(ctx, doc))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 7, docs[0].ChunkCount)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.IngestedDocument{
		ID: "doc-1", Filename: "a.txt", Path: "/a.txt", IngestedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.Clear(ctx))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
