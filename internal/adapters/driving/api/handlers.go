package api

import (
	"encoding/json"
	"net/http"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
)

// Handler serves the JSON API backed by the RAG pipeline.
type Handler struct {
	rag driving.RAGService
}

// queryRequest is the POST /api/query body.
type queryRequest struct {
	Question       string   `json:"question"`
	TopK           int      `json:"top_k"`
	ScoreThreshold *float64 `json:"score_threshold"`
	IncludeContext *bool    `json:"include_context"`
}

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Messages       []domain.ChatMessage `json:"messages"`
	TopK           int                  `json:"top_k"`
	ScoreThreshold *float64             `json:"score_threshold"`
	IncludeContext *bool                `json:"include_context"`
}

// errorResponse is the body for request-level failures.
type errorResponse struct {
	Error string `json:"error"`
}

// Query answers a single question.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Question == "" {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	resp := h.rag.Query(r.Context(), req.Question, toOptions(req.TopK, req.ScoreThreshold, req.IncludeContext))
	sendJSON(w, http.StatusOK, resp)
}

// Chat answers the latest user turn of a conversation.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resp := h.rag.Chat(r.Context(), req.Messages, toOptions(req.TopK, req.ScoreThreshold, req.IncludeContext))
	sendJSON(w, http.StatusOK, resp)
}

// Status reports component health and collection info.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.rag.Status(r.Context()))
}

// Health is a lightweight liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// toOptions maps request knobs onto pipeline options. Context inclusion
// defaults to true; an absent threshold means "use the configured
// default".
func toOptions(topK int, threshold *float64, includeContext *bool) driving.QueryOptions {
	opts := driving.QueryOptions{
		TopK:           topK,
		ScoreThreshold: -1,
		IncludeContext: true,
	}
	if threshold != nil {
		opts.ScoreThreshold = *threshold
	}
	if includeContext != nil {
		opts.IncludeContext = *includeContext
	}
	return opts
}

func sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
