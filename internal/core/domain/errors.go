package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration indicates parameters that cannot produce a
	// valid pipeline, such as a chunk overlap at or above the chunk size.
	// Validated at construction time, before any document is processed.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmbeddingUnavailable indicates the embedding service is
	// unreachable or returned malformed output. Batches fail as a whole;
	// no partial vectors are ever returned.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrShapeMismatch indicates mismatched lengths between ids, vectors
	// and payloads on a bulk upsert. This is a programmer error and is
	// never silently truncated.
	ErrShapeMismatch = errors.New("ids, vectors and payloads length mismatch")

	// ErrGenerationUnavailable indicates the generation service failed
	// for infrastructure reasons (network, quota). The user should try
	// again later.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrGenerationBlocked indicates the generation service refused the
	// prompt on content-safety grounds. The user should rephrase.
	ErrGenerationBlocked = errors.New("generation blocked by safety filter")

	// ErrDimensionMismatch indicates a collection's vector size disagrees
	// with the active embedding model. The collection must be recreated;
	// stale-dimension records cannot coexist with new ones.
	ErrDimensionMismatch = errors.New("collection vector size mismatch")
)
