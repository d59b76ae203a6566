// Package chunker splits document text into overlapping word windows
// for embedding and indexing.
package chunker

import (
	"strings"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

// Default window parameters, in words.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// Chunker produces fixed-size word windows with a fixed overlap.
// Consecutive windows advance by chunkSize - overlap words, so every
// word is covered and adjacent chunks share exactly overlap words
// (except the final chunk, which may be shorter and share more).
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a Chunker. A non-positive chunk size falls back to the
// default; a negative overlap is clamped to zero. The overlap must be
// strictly smaller than the chunk size, otherwise the window would
// never advance.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		return nil, domain.ErrInvalidConfiguration
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the window size in words.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the window overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into overlapping word windows. Whitespace of any
// kind separates words; the original spacing is not preserved inside a
// chunk. Empty or whitespace-only text yields no chunks. When pages
// are provided each chunk is attributed to the page its first word
// came from.
func (c *Chunker) Chunk(text string, pages []domain.PageText) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	pageOf := buildPageLookup(pages)

	step := c.chunkSize - c.overlap
	var chunks []domain.Chunk
	for start, idx := 0, 0; start < len(words); start, idx = start+step, idx+1 {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		overlapSize := 0
		if idx > 0 {
			overlapSize = c.overlap
		}

		chunks = append(chunks, domain.Chunk{
			Text:        strings.Join(words[start:end], " "),
			Index:       idx,
			StartWord:   start,
			EndWord:     end,
			SourcePage:  pageOf(start, end),
			OverlapSize: overlapSize,
		})

		if end == len(words) {
			break
		}
	}
	return chunks
}

// buildPageLookup maps global word offsets back to page numbers. The
// returned function resolves a chunk's page by its first word, falling
// back to a scan of the chunk's word range when the first word lands
// between pages.
func buildPageLookup(pages []domain.PageText) func(start, end int) *int {
	if len(pages) == 0 {
		return func(int, int) *int { return nil }
	}

	// pageAt[i] is the page number of global word i.
	var pageAt []int
	for _, p := range pages {
		n := len(strings.Fields(p.Content))
		for i := 0; i < n; i++ {
			pageAt = append(pageAt, p.Number)
		}
	}

	return func(start, end int) *int {
		if start < len(pageAt) {
			n := pageAt[start]
			return &n
		}
		for i := start; i < end && i < len(pageAt); i++ {
			n := pageAt[i]
			return &n
		}
		return nil
	}
}
