// Package qdrant provides a vector index adapter backed by the Qdrant
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "financial_documents"
	DefaultTimeout    = 30 * time.Second
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// Collection is the collection name (default: financial_documents).
	Collection string

	// APIKey authenticates against a secured Qdrant instance (optional).
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index stores and searches vectors in a Qdrant collection using
// cosine distance.
type Index struct {
	client     *http.Client
	baseURL    string
	collection string
	apiKey     string
}

// collectionInfoResponse is the GET /collections/{name} response format.
type collectionInfoResponse struct {
	Result struct {
		Status      string `json:"status"`
		PointsCount int64  `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// searchResponse is the points/search response format.
type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// point is the upsert wire format.
type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// New creates a Qdrant index client.
func New(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
	}
}

// EnsureCollection creates the collection if missing. A collection that
// exists with a different vector size is destroyed and recreated: stale
// dimensions would make every search silently wrong.
func (q *Index) EnsureCollection(ctx context.Context, vectorSize int) error {
	info, err := q.collectionInfo(ctx)
	if err == nil {
		if info.Result.Config.Params.Vectors.Size == vectorSize {
			return nil
		}
		logger.Warn("Collection %s has vector size %d, expected %d; recreating (existing points are lost)",
			q.collection, info.Result.Config.Params.Vectors.Size, vectorSize)
		if err := q.deleteCollection(ctx); err != nil {
			return fmt.Errorf("delete stale collection: %w", err)
		}
	}

	return q.createCollection(ctx, vectorSize)
}

// Upsert writes points in bulk. The three slices must be the same
// length.
func (q *Index) Upsert(ctx context.Context, ids []string, vectors [][]float32, payloads []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(payloads) {
		return fmt.Errorf("upsert %d ids, %d vectors, %d payloads: %w",
			len(ids), len(vectors), len(payloads), domain.ErrShapeMismatch)
	}
	if len(ids) == 0 {
		return nil
	}

	points := make([]point, len(ids))
	for i := range ids {
		points[i] = point{ID: ids[i], Vector: vectors[i], Payload: payloads[i]}
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", q.baseURL, q.collection)
	body := map[string]any{"points": points}
	if err := q.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	logger.Debug("Upserted %d points into %s", len(points), q.collection)
	return nil
}

// Search returns the closest points by cosine similarity, descending by
// score. Points scoring below scoreThreshold are excluded by the server.
func (q *Index) Search(
	ctx context.Context, vector []float32, limit int, scoreThreshold float64,
) ([]domain.RetrievalResult, error) {
	url := fmt.Sprintf("%s/collections/%s/points/search", q.baseURL, q.collection)
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": scoreThreshold,
		"with_payload":    true,
	}

	var resp searchResponse
	if err := q.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	results := make([]domain.RetrievalResult, 0, len(resp.Result))
	for _, hit := range resp.Result {
		text, _ := hit.Payload[driven.PayloadTextKey].(string)
		results = append(results, domain.RetrievalResult{
			ID:       fmt.Sprintf("%v", hit.ID),
			Text:     text,
			Score:    hit.Score,
			Metadata: driven.MetadataFromPayload(hit.Payload),
		})
	}
	return results, nil
}

// Clear deletes all points but keeps the collection and its schema.
func (q *Index) Clear(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", q.baseURL, q.collection)
	body := map[string]any{"filter": map[string]any{}}
	if err := q.do(ctx, http.MethodPost, url, body, nil); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	logger.Info("Cleared all points from %s", q.collection)
	return nil
}

// Health reports whether the Qdrant instance is reachable.
func (q *Index) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.baseURL+"/collections", http.NoBody)
	if err != nil {
		return false
	}
	q.setHeaders(req)

	resp, err := q.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Info returns collection metadata.
func (q *Index) Info(ctx context.Context) (domain.CollectionInfo, error) {
	info, err := q.collectionInfo(ctx)
	if err != nil {
		return domain.CollectionInfo{}, err
	}
	return domain.CollectionInfo{
		Name:       q.collection,
		VectorSize: info.Result.Config.Params.Vectors.Size,
		Distance:   info.Result.Config.Params.Vectors.Distance,
		PointCount: info.Result.PointsCount,
		Status:     info.Result.Status,
	}, nil
}

// Close releases resources.
func (q *Index) Close() error {
	return nil
}

func (q *Index) collectionInfo(ctx context.Context) (*collectionInfoResponse, error) {
	url := fmt.Sprintf("%s/collections/%s", q.baseURL, q.collection)
	var resp collectionInfoResponse
	if err := q.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (q *Index) createCollection(ctx context.Context, vectorSize int) error {
	url := fmt.Sprintf("%s/collections/%s", q.baseURL, q.collection)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	if err := q.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	logger.Info("Created collection %s (size=%d, distance=Cosine)", q.collection, vectorSize)
	return nil
}

func (q *Index) deleteCollection(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", q.baseURL, q.collection)
	return q.do(ctx, http.MethodDelete, url, nil, nil)
}

// do sends one JSON request and decodes the response into out when it
// is non-nil.
func (q *Index) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q.setHeaders(req)

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("collection %s: %w", q.collection, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (q *Index) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}
