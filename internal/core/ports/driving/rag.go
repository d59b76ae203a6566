package driving

import (
	"context"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// QueryOptions tunes one pass through the RAG pipeline. Zero values
// fall back to the orchestrator's configured defaults.
type QueryOptions struct {
	// TopK is the number of chunks to retrieve.
	TopK int

	// ScoreThreshold is the minimum similarity for retrieved chunks.
	// Negative means "use the configured default".
	ScoreThreshold float64

	// IncludeContext controls whether retrieval runs at all. When false
	// the generator answers ungrounded.
	IncludeContext bool

	// Temperature overrides the generation temperature when positive.
	Temperature float64
}

// RAGService is the retrieval-augmented query pipeline.
//
// Both operations return a result object unconditionally: pipeline
// failures (embedding down, index unreachable, generation blocked) are
// converted into a safe Answer plus a diagnostic Err field and never
// escape as errors. That is the orchestrator's boundary contract.
type RAGService interface {
	// Query answers a single question, optionally grounded in retrieved
	// context.
	Query(ctx context.Context, question string, opts QueryOptions) *domain.QueryResponse

	// Chat answers the latest user turn of a conversation. Prior turns
	// are neither re-embedded nor re-sent to the generator; history
	// management is the caller's responsibility.
	Chat(ctx context.Context, messages []domain.ChatMessage, opts QueryOptions) *domain.ChatResponse

	// Status reports component health and collection info.
	Status(ctx context.Context) *domain.SystemStatus
}
