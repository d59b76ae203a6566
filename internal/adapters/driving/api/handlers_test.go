package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
)

// stubRAG returns canned responses and records the received options.
type stubRAG struct {
	queryResp *domain.QueryResponse
	chatResp  *domain.ChatResponse
	status    *domain.SystemStatus
	lastOpts  driving.QueryOptions
	lastMsgs  []domain.ChatMessage
}

func (s *stubRAG) Query(_ context.Context, _ string, opts driving.QueryOptions) *domain.QueryResponse {
	s.lastOpts = opts
	return s.queryResp
}

func (s *stubRAG) Chat(_ context.Context, messages []domain.ChatMessage, opts driving.QueryOptions) *domain.ChatResponse {
	s.lastOpts = opts
	s.lastMsgs = messages
	return s.chatResp
}

func (s *stubRAG) Status(_ context.Context) *domain.SystemStatus {
	return s.status
}

var _ driving.RAGService = (*stubRAG)(nil)

func TestQueryEndpoint(t *testing.T) {
	rag := &stubRAG{queryResp: &domain.QueryResponse{
		Question:    "What is a bond?",
		Answer:      "A bond is a loan to an issuer.",
		Sources:     []domain.Source{{Text: "Bonds are debt.", Score: 0.9}},
		ContextUsed: true,
		NumSources:  1,
	}}
	router := NewRouter(rag)

	body := `{"question":"What is a bond?","top_k":3,"score_threshold":0.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A bond is a loan to an issuer.", resp.Answer)
	assert.True(t, resp.ContextUsed)

	assert.Equal(t, 3, rag.lastOpts.TopK)
	assert.Equal(t, 0.5, rag.lastOpts.ScoreThreshold)
	assert.True(t, rag.lastOpts.IncludeContext)
}

func TestQueryEndpoint_MissingQuestion(t *testing.T) {
	router := NewRouter(&stubRAG{})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question is required")
}

func TestQueryEndpoint_InvalidJSON(t *testing.T) {
	router := NewRouter(&stubRAG{})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryEndpoint_DefaultOptions(t *testing.T) {
	rag := &stubRAG{queryResp: &domain.QueryResponse{Answer: "ok"}}
	router := NewRouter(rag)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Absent threshold means "use the configured default".
	assert.Equal(t, float64(-1), rag.lastOpts.ScoreThreshold)
	assert.True(t, rag.lastOpts.IncludeContext)
}

func TestChatEndpoint(t *testing.T) {
	rag := &stubRAG{chatResp: &domain.ChatResponse{
		QueryResponse: domain.QueryResponse{Answer: "Index funds are passive."},
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "What is an index fund?"},
		},
	}}
	router := NewRouter(rag)

	body := `{"messages":[{"role":"user","content":"What is an index fund?"}],"include_context":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rag.lastMsgs, 1)
	assert.Equal(t, domain.RoleUser, rag.lastMsgs[0].Role)
	assert.False(t, rag.lastOpts.IncludeContext)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Index funds are passive.", resp.Answer)
	assert.Len(t, resp.Messages, 1)
}

func TestStatusEndpoint(t *testing.T) {
	rag := &stubRAG{status: &domain.SystemStatus{
		Healthy:        true,
		EmbeddingModel: "text-embedding-004",
		LLMModel:       "gemini-2.0-flash",
	}}
	router := NewRouter(rag)

	req := httptest.NewRequest(http.MethodGet, "/api/status", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status domain.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, "text-embedding-004", status.EmbeddingModel)
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(&stubRAG{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMethodNotAllowed(t *testing.T) {
	router := NewRouter(&stubRAG{})

	req := httptest.NewRequest(http.MethodGet, "/api/query", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
