package domain

// CollectionInfo describes the state of the vector index collection.
// One logical collection backs the whole knowledge base.
type CollectionInfo struct {
	// Name is the collection name.
	Name string `json:"name"`

	// VectorSize is the fixed dimension of stored vectors.
	VectorSize int `json:"vector_size"`

	// Distance is the similarity metric. Always cosine in this design.
	Distance string `json:"distance"`

	// PointCount is the number of stored records.
	PointCount int64 `json:"point_count"`

	// Status is the backend-reported collection status.
	Status string `json:"status"`
}

// SystemStatus aggregates component health for status surfaces.
type SystemStatus struct {
	// Healthy reports whether the vector index responded.
	Healthy bool `json:"healthy"`

	// Collection is the live collection info, when available.
	Collection CollectionInfo `json:"collection"`

	// EmbeddingModel is the active embedding model name.
	EmbeddingModel string `json:"embedding_model"`

	// EmbeddingDimension is the active embedding vector size.
	EmbeddingDimension int `json:"embedding_dimension"`

	// LLMModel is the active generation model name.
	LLMModel string `json:"llm_model"`

	// TopK is the configured retrieval result count.
	TopK int `json:"top_k"`

	// ScoreThreshold is the configured minimum similarity.
	ScoreThreshold float64 `json:"score_threshold"`
}
