// Package cache provides a bounded LRU decorator for an embedding
// service, avoiding repeat API calls for identical text.
package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultCapacity is the default maximum number of cached vectors.
const DefaultCapacity = 1000

// entry is one cached text → vector pair.
type entry struct {
	text   string
	vector []float32
}

// EmbeddingService wraps another embedding service with a thread-safe
// least-recently-used cache. When full, the oldest entry is evicted.
// Concurrent writers for the same key follow last-write-wins.
type EmbeddingService struct {
	inner driven.EmbeddingService

	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

// New wraps inner with an LRU cache of the given capacity. A capacity
// of zero or less falls back to the default.
func New(inner driven.EmbeddingService, capacity int) *EmbeddingService {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EmbeddingService{
		inner:    inner,
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Embed returns the cached vector for text, or delegates to the inner
// service and caches the result.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if vector, ok := s.get(text); ok {
		return vector, nil
	}

	vector, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.put(text, vector)
	return vector, nil
}

// EmbedBatch embeds texts, serving cached entries locally and sending
// only the misses to the inner service in one batch. The batch stays
// all-or-nothing: a failure on the misses fails the whole call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if vector, ok := s.get(text); ok {
			vectors[i] = vector
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fetched, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, vector := range fetched {
		vectors[missIdx[j]] = vector
		s.put(missTexts[j], vector)
	}
	return vectors, nil
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping delegates to the inner service.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the inner service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

// Len returns the number of cached entries.
func (s *EmbeddingService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *EmbeddingService) get(text string) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[text]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*entry).vector, true
}

func (s *EmbeddingService) put(text string, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[text]; ok {
		elem.Value.(*entry).vector = vector
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.items, oldest.Value.(*entry).text)
		}
	}
	s.items[text] = s.order.PushFront(&entry{text: text, vector: vector})
}
