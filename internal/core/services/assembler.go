package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
)

// Context length budgets, in characters.
const (
	// DefaultQueryContextLength bounds the context for single-shot queries.
	DefaultQueryContextLength = 2000

	// DefaultChatContextLength bounds the context for chat turns.
	DefaultChatContextLength = 1500

	// truncationBuffer is reserved when an oversized first chunk is cut
	// down to fit the budget.
	truncationBuffer = 50

	// minTruncatedLength is the smallest truncated chunk worth keeping.
	minTruncatedLength = 100
)

// BuildContext formats ranked retrieval results into a single context
// string bounded by maxLength characters. Each result is rendered as a
// source header followed by its text, separated by blank lines. Results
// are consumed in the given order until the next one would overflow the
// budget. If the very first result alone overflows, it is truncated
// with an ellipsis so a single long top-ranked chunk still contributes
// something. Empty input yields an empty string.
func BuildContext(results []domain.RetrievalResult, maxLength int) string {
	if len(results) == 0 {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultQueryContextLength
	}

	var parts []string
	currentLength := 0

	for _, r := range results {
		formatted := formatContextChunk(r)

		if currentLength+len(formatted) > maxLength {
			if len(parts) == 0 {
				remaining := maxLength - currentLength - truncationBuffer
				if remaining > minTruncatedLength {
					// Back up to a rune boundary so the cut never splits
					// a multi-byte character.
					for remaining > 0 && !utf8.RuneStart(formatted[remaining]) {
						remaining--
					}
					parts = append(parts, formatted[:remaining]+"...")
				}
			}
			break
		}

		parts = append(parts, formatted)
		// +2 for the separating newlines.
		currentLength += len(formatted) + 2
	}

	return strings.Join(parts, "\n\n")
}

// formatContextChunk renders one retrieval result with its source
// attribution header.
func formatContextChunk(r domain.RetrievalResult) string {
	source := "Unknown source"
	if v, ok := r.Metadata["filename"].(string); ok && v != "" {
		source = v
	}
	return fmt.Sprintf("[Source: %s (Relevance: %.2f)]\n%s", source, r.Score, chunkText(r))
}

// chunkText extracts the text of a retrieval result payload. Kept for
// payloads read back from the index where the text lives under the
// payload text key rather than the Text field.
func chunkText(r domain.RetrievalResult) string {
	if r.Text != "" {
		return r.Text
	}
	if v, ok := r.Metadata[driven.PayloadTextKey].(string); ok {
		return v
	}
	return ""
}
