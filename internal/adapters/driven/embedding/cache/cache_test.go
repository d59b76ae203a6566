package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder counts how many texts reach the backing service.
type countingEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return []float32{float32(len(text)), 0}, nil
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := c.Embed(ctx, t)
		vectors[i] = v
	}
	return vectors, nil
}

func (c *countingEmbedder) Dimensions() int              { return 2 }
func (c *countingEmbedder) ModelName() string            { return "counting" }
func (c *countingEmbedder) Ping(_ context.Context) error { return nil }
func (c *countingEmbedder) Close() error                 { return nil }

func TestEmbed_CachesRepeatedText(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 10)

	ctx := context.Background()
	first, err := svc.Embed(ctx, "hello")
	require.NoError(t, err)
	second, err := svc.Embed(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestEmbedBatch_OnlyMissesReachBackend(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 10)
	ctx := context.Background()

	_, err := svc.Embed(ctx, "cached")
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(ctx, []string{"cached", "fresh"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, 2, inner.calls) // "cached" once + "fresh" once
}

func TestEvictsOldestWhenFull(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 2)
	ctx := context.Background()

	_, _ = svc.Embed(ctx, "a")
	_, _ = svc.Embed(ctx, "b")
	_, _ = svc.Embed(ctx, "c") // evicts "a"
	assert.Equal(t, 2, svc.Len())

	_, _ = svc.Embed(ctx, "a") // miss, re-fetched
	assert.Equal(t, 4, inner.calls)
}

func TestGetRefreshesRecency(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 2)
	ctx := context.Background()

	_, _ = svc.Embed(ctx, "a")
	_, _ = svc.Embed(ctx, "b")
	_, _ = svc.Embed(ctx, "a") // refresh "a", "b" is now oldest
	_, _ = svc.Embed(ctx, "c") // evicts "b"

	calls := inner.calls
	_, _ = svc.Embed(ctx, "a") // still cached
	assert.Equal(t, calls, inner.calls)
}

func TestConcurrentAccess(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 4)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, text := range []string{"w", "x", "y", "z"} {
				_, err := svc.Embed(ctx, text)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, svc.Len())
}
