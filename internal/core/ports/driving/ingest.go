package driving

import (
	"context"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// IngestionService loads source documents into the knowledge base.
// Ingestion is a batch job, not a request-path operation; it may run
// concurrently with query traffic and readers may observe a partially
// ingested collection.
type IngestionService interface {
	// IngestDirectory parses, chunks, embeds and indexes every supported
	// file under dir.
	IngestDirectory(ctx context.Context, dir string) (*domain.IngestReport, error)

	// IngestDocuments indexes already-parsed documents.
	IngestDocuments(ctx context.Context, docs []*domain.Document) (*domain.IngestReport, error)

	// Documents lists the ingestion ledger.
	Documents(ctx context.Context) ([]domain.IngestedDocument, error)

	// Clear empties the knowledge base (index records and ledger),
	// keeping the collection schema.
	Clear(ctx context.Context) error
}
