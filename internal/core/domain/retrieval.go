package domain

// RetrievalResult is a single similarity-search hit. Ephemeral:
// constructed per query, never persisted.
type RetrievalResult struct {
	// ID is the vector index point id.
	ID string

	// Text is the verbatim chunk text stored in the point payload.
	Text string

	// Score is the cosine similarity in [0, 1]; higher is better.
	Score float64

	// Metadata is a copy of the point payload with the text key removed.
	Metadata map[string]any
}

// SourcePreviewLimit caps the text carried on a Source reference.
const SourcePreviewLimit = 500

// Source is a user-facing reference to a retrieved chunk, with the text
// truncated to a preview.
type Source struct {
	// Text is a preview of the chunk, at most SourcePreviewLimit runes
	// plus an ellipsis when truncated.
	Text string `json:"text"`

	// Score is the similarity score of the underlying hit.
	Score float64 `json:"score"`

	// Metadata mirrors the hit metadata (filename, page, chunk index).
	Metadata map[string]any `json:"metadata"`
}

// NewSource builds a Source from a retrieval hit, truncating the text.
func NewSource(r RetrievalResult) Source {
	text := r.Text
	if runes := []rune(text); len(runes) > SourcePreviewLimit {
		text = string(runes[:SourcePreviewLimit]) + "..."
	}
	return Source{
		Text:     text,
		Score:    r.Score,
		Metadata: r.Metadata,
	}
}

// QueryResponse is the result of one pass through the RAG pipeline.
// The orchestrator always returns one, even on total failure: Answer is
// always a user-presentable string and Err carries diagnostics.
type QueryResponse struct {
	// Question is the user question that drove the pipeline.
	Question string `json:"question"`

	// Answer is the generated (or fallback) answer text.
	Answer string `json:"answer"`

	// Sources references the retrieved chunks that grounded the answer.
	Sources []Source `json:"sources"`

	// ContextUsed reports whether retrieved context reached the generator.
	ContextUsed bool `json:"context_used"`

	// NumSources is len(Sources), duplicated for API convenience.
	NumSources int `json:"num_sources"`

	// Err holds a diagnostic message when a pipeline step failed.
	// Empty on success. Never shown verbatim to end users.
	Err string `json:"error,omitempty"`
}

// ChatResponse is a QueryResponse plus the conversation it belongs to.
// The orchestrator does not mutate history; it is echoed back for
// caller bookkeeping.
type ChatResponse struct {
	QueryResponse

	// Messages is the full conversation, as passed in by the caller.
	Messages []ChatMessage `json:"messages"`
}
