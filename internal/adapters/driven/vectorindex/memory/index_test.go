package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, 2))

	err := idx.Upsert(ctx,
		[]string{"close", "far", "mid"},
		[][]float32{{1, 0}, {0, 1}, {0.707, 0.707}},
		[]map[string]any{
			{"text": "very relevant"},
			{"text": "irrelevant"},
			{"text": "somewhat relevant"},
		},
	)
	require.NoError(t, err)

	results, err := idx.Search(ctx, []float32{1, 0}, 10, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "close", results[0].ID)
	assert.Equal(t, "mid", results[1].ID)
	assert.Equal(t, "far", results[2].ID)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearch_MetadataExcludesTextKey(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, 2))

	require.NoError(t, idx.Upsert(ctx,
		[]string{"a"},
		[][]float32{{1, 0}},
		[]map[string]any{{
			"text":     "Stocks represent ownership in a company.",
			"filename": "a.txt",
		}},
	))

	results, err := idx.Search(ctx, []float32{1, 0}, 10, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Stocks represent ownership in a company.", results[0].Text)
	assert.Equal(t, "a.txt", results[0].Metadata["filename"])
	assert.NotContains(t, results[0].Metadata, "text")
}

func TestSearch_AppliesThresholdAndLimit(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, 2))

	require.NoError(t, idx.Upsert(ctx,
		[]string{"a", "b"},
		[][]float32{{1, 0}, {0, 1}},
		[]map[string]any{{"text": "a"}, {"text": "b"}},
	))

	results, err := idx.Search(ctx, []float32{1, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)

	results, err = idx.Search(ctx, []float32{1, 0}, 1, 0.0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestUpsert_ShapeMismatch(t *testing.T) {
	idx := New()
	err := idx.Upsert(context.Background(), []string{"a"}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, 3))

	err := idx.Upsert(ctx, []string{"a"}, [][]float32{{1, 0}}, []map[string]any{{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEnsureCollection_RecreatesOnSizeChange(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, 2))
	require.NoError(t, idx.Upsert(ctx, []string{"a"}, [][]float32{{1, 0}}, []map[string]any{{}}))

	require.NoError(t, idx.EnsureCollection(ctx, 3))
	info, err := idx.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.PointCount)
	assert.Equal(t, 3, info.VectorSize)
}

func TestClear_KeepsVectorSize(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, 2))
	require.NoError(t, idx.Upsert(ctx, []string{"a"}, [][]float32{{1, 0}}, []map[string]any{{}}))

	require.NoError(t, idx.Clear(ctx))
	info, err := idx.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.PointCount)
	assert.Equal(t, 2, info.VectorSize)
}
