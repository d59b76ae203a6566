package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// Retrieval defaults.
const (
	DefaultTopK           = 5
	DefaultScoreThreshold = 0.7
)

// dedupPrefixLength is how many characters of a result's text form its
// deduplication signature.
const dedupPrefixLength = 100

// multiStrategyVariants are the query reformulations issued by the
// multi strategy, each with its own result limit. The empty suffix is
// the direct topic search.
var multiStrategyVariants = []struct {
	suffix string
	limit  int
}{
	{"", 10},
	{" technical specifications parameters standards", 8},
	{" applications case studies real world examples industry", 8},
	{" safety procedures troubleshooting maintenance issues", 8},
	{" best practices industry standards guidelines protocols", 8},
}

// RetrieverService turns queries into ranked, deduplicated chunk lists
// by embedding the query and searching the vector index.
type RetrieverService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewRetrieverService creates a retriever backed by the given embedding
// service and vector index.
func NewRetrieverService(embedder driven.EmbeddingService, index driven.VectorIndex) *RetrieverService {
	return &RetrieverService{embedder: embedder, index: index}
}

// Retrieve runs one retrieval pass. An empty result list is a valid
// outcome and is returned without error.
func (s *RetrieverService) Retrieve(
	ctx context.Context, query string, opts driving.RetrieveOptions,
) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievalResult{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	threshold := opts.ScoreThreshold
	if threshold < 0 {
		threshold = DefaultScoreThreshold
	}

	if opts.Strategy == driving.StrategyMulti {
		return s.retrieveMulti(ctx, query, threshold)
	}
	return s.retrieveSingle(ctx, query, topK, threshold)
}

// retrieveSingle is one embedding call and one search, used for chat
// and single-shot Q&A. Results come back already ranked by the index.
func (s *RetrieverService) retrieveSingle(
	ctx context.Context, query string, topK int, threshold float64,
) ([]domain.RetrievalResult, error) {
	logger.Debug("Single retrieval: query=%q, topK=%d, threshold=%.2f", query, topK, threshold)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.index.Search(ctx, vector, topK, threshold)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	logger.Debug("Single retrieval: %d results", len(results))
	return results, nil
}

// retrieveMulti issues several reformulations of the topic as separate
// searches and merges the result sets, dropping near-duplicates. The
// merged list keeps search-then-discovery order; it is not re-ranked by
// aggregate score.
func (s *RetrieverService) retrieveMulti(
	ctx context.Context, topic string, threshold float64,
) ([]domain.RetrievalResult, error) {
	logger.Section("Multi-Strategy Retrieval")

	var merged []domain.RetrievalResult
	for _, variant := range multiStrategyVariants {
		query := topic + variant.suffix
		logger.Debug("Strategy search: query=%q, limit=%d", query, variant.limit)

		vector, err := s.embedder.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embed variant %q: %w", query, err)
		}

		results, err := s.index.Search(ctx, vector, variant.limit, threshold)
		if err != nil {
			return nil, fmt.Errorf("search variant %q: %w", query, err)
		}

		merged = append(merged, results...)
	}

	deduped := dedupeByPrefix(merged)
	logger.Info("Multi-strategy retrieval: %d raw, %d after deduplication", len(merged), len(deduped))
	return deduped, nil
}

// dedupeByPrefix removes near-duplicate results, keeping the first
// occurrence of each unique content signature in order.
func dedupeByPrefix(results []domain.RetrievalResult) []domain.RetrievalResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]domain.RetrievalResult, 0, len(results))

	for _, r := range results {
		sig := contentSignature(chunkText(r))
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// contentSignature normalizes the first dedupPrefixLength characters of
// text into a deduplication key: lowercased, punctuation stripped,
// whitespace collapsed.
func contentSignature(text string) string {
	var b strings.Builder
	count := 0
	for _, r := range strings.ToLower(text) {
		if count >= dedupPrefixLength {
			break
		}
		count++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
