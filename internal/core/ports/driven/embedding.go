package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must return L2-normalised (unit length) vectors so
// that a plain dot product equals cosine similarity. The vector index
// search depends on this invariant.
//
// Implementations may include:
//   - Gemini (text-embedding-004)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order. Batches are all-or-nothing: on failure no partial
	// results are returned and the error wraps
	// domain.ErrEmbeddingUnavailable.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768, 1536).
	// This is determined by the model and must match the vector index
	// collection configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
