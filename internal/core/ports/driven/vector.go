package driven

import (
	"context"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// PayloadTextKey is the payload key under which the verbatim chunk text
// is duplicated on every stored point.
const PayloadTextKey = "text"

// MetadataFromPayload copies a stored point payload with PayloadTextKey
// removed. Retrieval metadata never duplicates the chunk text; the text
// travels on RetrievalResult.Text alone.
func MetadataFromPayload(payload map[string]any) map[string]any {
	metadata := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == PayloadTextKey {
			continue
		}
		metadata[k] = v
	}
	return metadata
}

// VectorIndex stores (vector, text, metadata) triples in a named
// collection and serves cosine similarity search. The index is an
// external capability; the core never assumes exclusive access and never
// performs read-modify-write on its contents.
type VectorIndex interface {
	// EnsureCollection idempotently creates the collection with the given
	// vector size. If a collection of the same name exists with a
	// different size it is destroyed and recreated: stale-dimension
	// records are unusable and silently wrong if kept. Data loss on
	// recreation is accepted and logged.
	EnsureCollection(ctx context.Context, vectorSize int) error

	// Upsert bulk-writes points. ids, vectors and payloads must have
	// equal lengths or the call fails with domain.ErrShapeMismatch.
	// Each payload carries the chunk text under PayloadTextKey plus
	// open metadata (filename, page, chunk index).
	Upsert(ctx context.Context, ids []string, vectors [][]float32, payloads []map[string]any) error

	// Search returns up to limit hits ranked strictly descending by
	// score. Hits scoring below scoreThreshold are excluded entirely.
	Search(ctx context.Context, vector []float32, limit int, scoreThreshold float64) ([]domain.RetrievalResult, error)

	// Clear removes all records but keeps the collection and its schema.
	Clear(ctx context.Context) error

	// Health reports whether the index backend is reachable.
	Health(ctx context.Context) bool

	// Info returns collection-level details (point count, vector size).
	Info(ctx context.Context) (domain.CollectionInfo, error)

	// Close releases resources.
	Close() error
}
