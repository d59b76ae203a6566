// Package memory provides an in-process vector index for development
// and tests. Search is a brute-force dot product over all records,
// which equals cosine similarity for the unit-length vectors the
// embedding adapters produce.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultCollection mirrors the name used by the Qdrant adapter.
const DefaultCollection = "financial_documents"

type record struct {
	id      string
	vector  []float32
	payload map[string]any
}

// Index is a thread-safe in-memory vector store.
type Index struct {
	mu         sync.RWMutex
	name       string
	vectorSize int
	records    map[string]record
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{
		name:    DefaultCollection,
		records: make(map[string]record),
	}
}

// EnsureCollection fixes the vector size. Changing the size drops all
// stored records, matching the recreate semantics of the real index.
func (m *Index) EnsureCollection(_ context.Context, vectorSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vectorSize != 0 && m.vectorSize != vectorSize {
		m.records = make(map[string]record)
	}
	m.vectorSize = vectorSize
	return nil
}

// Upsert stores records, replacing any with the same id.
func (m *Index) Upsert(_ context.Context, ids []string, vectors [][]float32, payloads []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(payloads) {
		return fmt.Errorf("upsert %d ids, %d vectors, %d payloads: %w",
			len(ids), len(vectors), len(payloads), domain.ErrShapeMismatch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, id := range ids {
		if m.vectorSize != 0 && len(vectors[i]) != m.vectorSize {
			return fmt.Errorf("vector %d has size %d, collection expects %d: %w",
				i, len(vectors[i]), m.vectorSize, domain.ErrDimensionMismatch)
		}
		m.records[id] = record{id: id, vector: vectors[i], payload: payloads[i]}
	}
	return nil
}

// Search scores every record against the query vector and returns the
// top hits in descending score order, excluding scores below the
// threshold.
func (m *Index) Search(
	_ context.Context, vector []float32, limit int, scoreThreshold float64,
) ([]domain.RetrievalResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]domain.RetrievalResult, 0, len(m.records))
	for _, rec := range m.records {
		score := dot(vector, rec.vector)
		if score < scoreThreshold {
			continue
		}
		text, _ := rec.payload[driven.PayloadTextKey].(string)
		results = append(results, domain.RetrievalResult{
			ID:       rec.id,
			Text:     text,
			Score:    score,
			Metadata: driven.MetadataFromPayload(rec.payload),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Clear removes all records but keeps the configured vector size.
func (m *Index) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]record)
	return nil
}

// Health always reports true; the index lives in-process.
func (m *Index) Health(_ context.Context) bool { return true }

// Info returns collection metadata.
func (m *Index) Info(_ context.Context) (domain.CollectionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.CollectionInfo{
		Name:       m.name,
		VectorSize: m.vectorSize,
		Distance:   "Cosine",
		PointCount: int64(len(m.records)),
		Status:     "green",
	}, nil
}

// Close releases resources.
func (m *Index) Close() error { return nil }

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
