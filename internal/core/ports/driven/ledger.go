package driven

import (
	"context"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// IngestionLedger records which source documents have entered the
// knowledge base. The ledger is bookkeeping only; the authoritative
// chunk data lives in the vector index.
type IngestionLedger interface {
	// Record stores (or replaces) the ledger entry for a document.
	Record(ctx context.Context, doc domain.IngestedDocument) error

	// List returns all ledger entries, most recent first.
	List(ctx context.Context) ([]domain.IngestedDocument, error)

	// Clear removes all ledger entries.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
