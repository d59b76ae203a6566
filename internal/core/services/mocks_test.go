package services

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
)

// fakeEmbedder returns canned vectors and records what it embedded.
type fakeEmbedder struct {
	vector    []float32
	err       error
	pingErr   error
	embedded  []string
	dimension int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vector: []float32{1, 0, 0}, dimension: 3}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.embedded = append(f.embedded, text)
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.embedded = append(f.embedded, texts...)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int              { return f.dimension }
func (f *fakeEmbedder) ModelName() string            { return "fake-embedder" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeEmbedder) Close() error                 { return nil }

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

// searchCall records the arguments of one Search invocation.
type searchCall struct {
	limit     int
	threshold float64
}

// fakeIndex serves canned search results (one result set per call, in
// order) and records upserts.
type fakeIndex struct {
	searchResults [][]domain.RetrievalResult
	searchCalls   []searchCall
	searchErr     error

	upsertIDs      []string
	upsertVectors  [][]float32
	upsertPayloads []map[string]any

	ensuredSize int
	cleared     bool
	healthy     bool
	info        domain.CollectionInfo
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{healthy: true, info: domain.CollectionInfo{Name: "financial_documents", Status: "green"}}
}

func (f *fakeIndex) EnsureCollection(_ context.Context, vectorSize int) error {
	f.ensuredSize = vectorSize
	return nil
}

func (f *fakeIndex) Upsert(_ context.Context, ids []string, vectors [][]float32, payloads []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(payloads) {
		return domain.ErrShapeMismatch
	}
	f.upsertIDs = append(f.upsertIDs, ids...)
	f.upsertVectors = append(f.upsertVectors, vectors...)
	f.upsertPayloads = append(f.upsertPayloads, payloads...)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, limit int, threshold float64) ([]domain.RetrievalResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.searchCalls = append(f.searchCalls, searchCall{limit: limit, threshold: threshold})
	if len(f.searchResults) == 0 {
		return []domain.RetrievalResult{}, nil
	}
	results := f.searchResults[0]
	if len(f.searchResults) > 1 {
		f.searchResults = f.searchResults[1:]
	}
	return results, nil
}

func (f *fakeIndex) Clear(_ context.Context) error {
	f.cleared = true
	return nil
}

func (f *fakeIndex) Health(_ context.Context) bool { return f.healthy }

func (f *fakeIndex) Info(_ context.Context) (domain.CollectionInfo, error) {
	return f.info, nil
}

func (f *fakeIndex) Close() error { return nil }

var _ driven.VectorIndex = (*fakeIndex)(nil)

// fakeLLM returns a canned answer and records the last prompt.
type fakeLLM struct {
	answer     string
	err        error
	pingErr    error
	lastPrompt string
	calls      int
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeLLM) Close() error                 { return nil }

var _ driven.LLMService = (*fakeLLM)(nil)

// fakeRetriever returns canned results for orchestrator tests.
type fakeRetriever struct {
	results  []domain.RetrievalResult
	err      error
	calls    int
	lastOpts driving.RetrieveOptions
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, opts driving.RetrieveOptions) ([]domain.RetrievalResult, error) {
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

var _ driving.Retriever = (*fakeRetriever)(nil)

// fakeParser parses .txt files into single-page documents.
type fakeParser struct {
	docs map[string]*domain.Document
}

func (f *fakeParser) Parse(_ context.Context, path string) (*domain.Document, error) {
	if doc, ok := f.docs[path]; ok {
		return doc, nil
	}
	return &domain.Document{
		ID:       path,
		Path:     path,
		Filename: filepath.Base(path),
		Content:  "placeholder content for " + filepath.Base(path),
	}, nil
}

func (f *fakeParser) Supports(path string) bool {
	return strings.HasSuffix(path, ".txt")
}

var _ driven.DocumentParser = (*fakeParser)(nil)

// fakeLedger is an in-memory ingestion ledger.
type fakeLedger struct {
	entries []domain.IngestedDocument
}

func (f *fakeLedger) Record(_ context.Context, doc domain.IngestedDocument) error {
	f.entries = append(f.entries, doc)
	return nil
}

func (f *fakeLedger) List(_ context.Context) ([]domain.IngestedDocument, error) {
	return f.entries, nil
}

func (f *fakeLedger) Clear(_ context.Context) error {
	f.entries = nil
	return nil
}

func (f *fakeLedger) Close() error { return nil }

var _ driven.IngestionLedger = (*fakeLedger)(nil)
