package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Rajiv714/FinBot/internal/chunker"
	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestionService = (*IngestService)(nil)

// IngestService loads documents into the knowledge base: parse, chunk,
// embed and upsert into the vector index, recording each document in
// the ledger.
type IngestService struct {
	parsers  []driven.DocumentParser
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	ledger   driven.IngestionLedger
}

// NewIngestService creates an ingestion service. The ledger is optional
// (can be nil); without it ingestion still works but Documents returns
// nothing.
func NewIngestService(
	parsers []driven.DocumentParser,
	chk *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	ledger driven.IngestionLedger,
) *IngestService {
	return &IngestService{
		parsers:  parsers,
		chunker:  chk,
		embedder: embedder,
		index:    index,
		ledger:   ledger,
	}
}

// IngestDirectory parses every supported file under dir and indexes the
// results. Unsupported files are skipped silently; a parse failure on a
// single file aborts the run.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (*domain.IngestReport, error) {
	logger.Section("Document Ingestion")
	logger.Info("Scanning directory: %s", dir)

	var docs []*domain.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		parser := s.parserFor(path)
		if parser == nil {
			logger.Debug("Skipping unsupported file: %s", path)
			return nil
		}

		doc, err := parser.Parse(ctx, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	logger.Info("Parsed %d documents", len(docs))
	return s.IngestDocuments(ctx, docs)
}

// IngestDocuments chunks, embeds and indexes already-parsed documents.
// Documents with empty content are skipped.
func (s *IngestService) IngestDocuments(ctx context.Context, docs []*domain.Document) (*domain.IngestReport, error) {
	if err := s.index.EnsureCollection(ctx, s.embedder.Dimensions()); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	report := &domain.IngestReport{}

	for _, doc := range docs {
		if doc == nil || doc.Content == "" {
			continue
		}

		chunks := s.chunker.Chunk(doc.Content, doc.Pages)
		if len(chunks) == 0 {
			logger.Debug("No chunks produced for %s", doc.Filename)
			continue
		}
		logger.Debug("Document %s: %d chunks", doc.Filename, len(chunks))

		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks for %s: %w", doc.Filename, err)
		}

		ids := make([]string, len(chunks))
		payloads := make([]map[string]any, len(chunks))
		for i, c := range chunks {
			ids[i] = uuid.NewString()
			payloads[i] = s.chunkPayload(doc, c)
		}

		if err := s.index.Upsert(ctx, ids, vectors, payloads); err != nil {
			return nil, fmt.Errorf("upsert chunks for %s: %w", doc.Filename, err)
		}

		if s.ledger != nil {
			entry := domain.IngestedDocument{
				ID:         doc.ID,
				Filename:   doc.Filename,
				Path:       doc.Path,
				ChunkCount: len(chunks),
				IngestedAt: time.Now().UTC(),
			}
			if err := s.ledger.Record(ctx, entry); err != nil {
				return nil, fmt.Errorf("record document %s: %w", doc.Filename, err)
			}
		}

		report.DocumentsProcessed++
		report.ChunksCreated += len(chunks)
		report.PointIDs = append(report.PointIDs, ids...)
	}

	logger.Info("Ingestion complete: %d documents, %d chunks",
		report.DocumentsProcessed, report.ChunksCreated)
	return report, nil
}

// Documents lists the ingestion ledger.
func (s *IngestService) Documents(ctx context.Context) ([]domain.IngestedDocument, error) {
	if s.ledger == nil {
		return []domain.IngestedDocument{}, nil
	}
	docs, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Clear empties the index records and the ledger. The collection schema
// is preserved.
func (s *IngestService) Clear(ctx context.Context) error {
	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if s.ledger != nil {
		if err := s.ledger.Clear(ctx); err != nil {
			return fmt.Errorf("clear ledger: %w", err)
		}
	}
	logger.Info("Knowledge base cleared")
	return nil
}

// parserFor returns the first parser that supports path, or nil.
func (s *IngestService) parserFor(path string) driven.DocumentParser {
	for _, p := range s.parsers {
		if p.Supports(path) {
			return p
		}
	}
	return nil
}

// chunkPayload builds the index payload for one chunk. The chunk text
// lives under the payload text key; document metadata is merged in
// without overriding the chunk fields.
func (s *IngestService) chunkPayload(doc *domain.Document, c domain.Chunk) map[string]any {
	payload := map[string]any{
		driven.PayloadTextKey: c.Text,
		"filename":            doc.Filename,
		"source":              doc.Path,
		"chunk_index":         c.Index,
		"start_word":          c.StartWord,
		"end_word":            c.EndWord,
	}
	if c.SourcePage != nil {
		payload["page"] = *c.SourcePage
	}
	for k, v := range doc.Metadata {
		if _, exists := payload[k]; !exists {
			payload[k] = v
		}
	}
	return payload
}
