package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

func newTestIndex(t *testing.T, handler http.Handler) *Index {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL})
}

func collectionJSON(size int, points int64) string {
	return fmt.Sprintf(`{"result":{"status":"green","points_count":%d,
		"config":{"params":{"vectors":{"size":%d,"distance":"Cosine"}}}}}`, points, size)
}

func TestEnsureCollection_CreatesWhenMissing(t *testing.T) {
	var created bool
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPut:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			vectors := body["vectors"].(map[string]any)
			assert.Equal(t, float64(768), vectors["size"])
			assert.Equal(t, "Cosine", vectors["distance"])
			created = true
			w.Write([]byte(`{"result":true}`))
		}
	})

	idx := newTestIndex(t, mux)
	require.NoError(t, idx.EnsureCollection(context.Background(), 768))
	assert.True(t, created)
}

func TestEnsureCollection_NoopWhenSizeMatches(t *testing.T) {
	var recreated bool
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(collectionJSON(768, 10)))
		default:
			recreated = true
		}
	})

	idx := newTestIndex(t, mux)
	require.NoError(t, idx.EnsureCollection(context.Background(), 768))
	assert.False(t, recreated)
}

func TestEnsureCollection_RecreatesOnDimensionMismatch(t *testing.T) {
	var deleted, created bool
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(collectionJSON(384, 10)))
		case http.MethodDelete:
			deleted = true
			w.Write([]byte(`{"result":true}`))
		case http.MethodPut:
			created = true
			w.Write([]byte(`{"result":true}`))
		}
	})

	idx := newTestIndex(t, mux)
	require.NoError(t, idx.EnsureCollection(context.Background(), 768))
	assert.True(t, deleted)
	assert.True(t, created)
}

func TestUpsert_ShapeMismatch(t *testing.T) {
	idx := newTestIndex(t, http.NewServeMux())

	err := idx.Upsert(context.Background(),
		[]string{"a", "b"},
		[][]float32{{1}},
		[]map[string]any{{}, {}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestUpsert_SendsPoints(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents/points", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"result":{"status":"completed"}}`))
	})

	idx := newTestIndex(t, mux)
	err := idx.Upsert(context.Background(),
		[]string{"id-1"},
		[][]float32{{0.1, 0.2}},
		[]map[string]any{{"text": "hello"}},
	)
	require.NoError(t, err)

	points := got["points"].([]any)
	require.Len(t, points, 1)
	p := points[0].(map[string]any)
	assert.Equal(t, "id-1", p["id"])
}

func TestSearch_MapsResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents/points/search", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["limit"])
		assert.Equal(t, 0.7, body["score_threshold"])
		assert.Equal(t, true, body["with_payload"])

		w.Write([]byte(`{"result":[
			{"id":"p1","score":0.91,"payload":{"text":"Budgeting basics.","filename":"guide.pdf"}},
			{"id":"p2","score":0.80,"payload":{"text":"Emergency funds."}}
		]}`))
	})

	idx := newTestIndex(t, mux)
	results, err := idx.Search(context.Background(), []float32{1, 0}, 5, 0.7)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, "Budgeting basics.", results[0].Text)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, "guide.pdf", results[0].Metadata["filename"])
	assert.NotContains(t, results[0].Metadata, "text")
	assert.NotContains(t, results[1].Metadata, "text")
}

func TestClear_DeletesPointsKeepsCollection(t *testing.T) {
	var gotFilter bool
	var collectionDeleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents/points/delete", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, gotFilter = body["filter"]
		w.Write([]byte(`{"result":{"status":"completed"}}`))
	})
	mux.HandleFunc("/collections/financial_documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			collectionDeleted = true
		}
	})

	idx := newTestIndex(t, mux)
	require.NoError(t, idx.Clear(context.Background()))
	assert.True(t, gotFilter)
	assert.False(t, collectionDeleted)
}

func TestInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/financial_documents", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(collectionJSON(768, 42)))
	})

	idx := newTestIndex(t, mux)
	info, err := idx.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "financial_documents", info.Name)
	assert.Equal(t, 768, info.VectorSize)
	assert.Equal(t, "Cosine", info.Distance)
	assert.Equal(t, int64(42), info.PointCount)
	assert.Equal(t, "green", info.Status)
}

func TestHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"collections":[]}}`))
	})

	idx := newTestIndex(t, mux)
	assert.True(t, idx.Health(context.Background()))

	down := New(Config{BaseURL: "http://127.0.0.1:1"})
	assert.False(t, down.Health(context.Background()))
}
