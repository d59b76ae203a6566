// Package text provides a document parser for plain-text and Markdown
// files. Form feed characters split a file into pages, which lets the
// chunker attribute chunks to page numbers.
package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser reads .txt and .md files into documents.
type Parser struct{}

// New creates a text parser.
func New() *Parser {
	return &Parser{}
}

// Supports reports whether path has a recognized extension.
func (p *Parser) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// Parse reads the file into a document. Pages are delimited by form
// feed characters; a file without form feeds is a single page.
func (p *Parser) Parse(_ context.Context, path string) (*domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	content := string(raw)
	filename := filepath.Base(path)

	var pages []domain.PageText
	for i, pageContent := range strings.Split(content, "\f") {
		pages = append(pages, domain.PageText{
			Number:  i + 1,
			Content: pageContent,
		})
	}

	// The chunker sees one continuous word stream; the form feeds only
	// mark page boundaries.
	flat := strings.ReplaceAll(content, "\f", "\n")

	return &domain.Document{
		ID:       uuid.NewString(),
		Path:     path,
		Filename: filename,
		Content:  flat,
		Pages:    pages,
		Metadata: map[string]any{
			"filename":      filename,
			"source":        path,
			"document_type": documentType(filename),
		},
		ParsedAt: time.Now().UTC(),
	}, nil
}

func documentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return "markdown"
	default:
		return "text"
	}
}
