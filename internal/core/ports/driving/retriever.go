package driving

import (
	"context"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// Retrieval strategies.
const (
	// StrategySingle issues one similarity search on the raw query.
	// Used by chat and single-shot Q&A.
	StrategySingle = "single"

	// StrategyMulti issues several query variants derived from a topic
	// and merges the result sets with prefix deduplication. Used by
	// content-extraction callers (handout generation).
	StrategyMulti = "multi"
)

// RetrieveOptions configures a retrieval pass.
type RetrieveOptions struct {
	// TopK is the result limit for the primary search.
	TopK int

	// ScoreThreshold is the minimum similarity; hits below it are
	// excluded entirely.
	ScoreThreshold float64

	// Strategy is StrategySingle or StrategyMulti.
	Strategy string
}

// Retriever turns a query into a deduplicated, ranked list of chunks.
// An empty result list is a legitimate state (ungrounded generation),
// not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]domain.RetrievalResult, error)
}
