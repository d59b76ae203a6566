// Package api exposes the RAG pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// NewRouter builds the HTTP routing table.
func NewRouter(rag driving.RAGService) *mux.Router {
	h := &Handler{rag: rag}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/query", h.Query).Methods(http.MethodPost)
	api.HandleFunc("/chat", h.Chat).Methods(http.MethodPost)
	api.HandleFunc("/status", h.Status).Methods(http.MethodGet)
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}

// loggingMiddleware records each request in verbose mode.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
