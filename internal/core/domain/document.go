package domain

import "time"

// PageText is the text content of a single source page, as reported by
// the document parser. Page numbers are 1-based.
type PageText struct {
	// Number is the 1-based page number.
	Number int

	// Content is the extracted text of the page.
	Content string
}

// Document is the canonical representation of a parsed source document,
// before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the original file location.
	Path string

	// Filename is the base name of the source file.
	Filename string

	// Content is the full extracted text.
	Content string

	// Pages holds per-page text when the parser can attribute content to
	// pages. Empty when page information is unavailable.
	Pages []PageText

	// Metadata contains arbitrary key-value pairs (document type, title).
	Metadata map[string]any

	// ParsedAt is when the document was parsed.
	ParsedAt time.Time
}

// Chunk is a contiguous span of a source document, measured in words.
// Chunks are immutable; re-ingestion replaces them wholesale.
type Chunk struct {
	// Text is the chunk content. Never empty.
	Text string

	// Index is the 0-based position in traversal order.
	Index int

	// StartWord and EndWord are word offsets into the source document.
	// EndWord is exclusive.
	StartWord int
	EndWord   int

	// SourcePage is the 1-based page the chunk starts on, when known.
	// Nil means page attribution was not possible.
	SourcePage *int

	// OverlapSize is the number of words shared with the previous chunk.
	// Zero for the first chunk.
	OverlapSize int
}

// WordCount returns the number of words covered by the chunk.
func (c Chunk) WordCount() int {
	return c.EndWord - c.StartWord
}

// IngestedDocument is a ledger record of one ingested source document.
type IngestedDocument struct {
	// ID is the document identifier assigned at parse time.
	ID string

	// Filename is the base name of the source file.
	Filename string

	// Path is the original file location.
	Path string

	// ChunkCount is how many chunks the document produced.
	ChunkCount int

	// IngestedAt is when the document entered the knowledge base.
	IngestedAt time.Time
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// DocumentsProcessed is the number of documents parsed successfully.
	DocumentsProcessed int

	// ChunksCreated is the total number of chunks written to the index.
	ChunksCreated int

	// PointIDs are the vector index ids assigned to the chunks.
	PointIDs []string
}
