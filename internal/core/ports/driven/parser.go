package driven

import (
	"context"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// DocumentParser extracts text (and best-effort page content) from a
// source file. Parsing internals are a black box to the core; only the
// content/pages contract matters.
type DocumentParser interface {
	// Parse reads one file and returns its text content with optional
	// per-page attribution.
	Parse(ctx context.Context, path string) (*domain.Document, error)

	// Supports reports whether the parser handles the given file path.
	Supports(path string) bool
}
