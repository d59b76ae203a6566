// Package sqlite provides the SQLite-backed ingestion ledger.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Rajiv714/FinBot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IngestionLedger = (*Store)(nil)

// Store is the SQLite-backed ingestion ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the ledger database under dataDir. An
// empty dataDir defaults to ~/.finbot/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".finbot", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// WAL mode lets ingestion and status queries overlap.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Record stores or replaces a ledger entry.
func (s *Store) Record(ctx context.Context, doc domain.IngestedDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, path, chunk_count, ingested_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			path = excluded.path,
			chunk_count = excluded.chunk_count,
			ingested_at = excluded.ingested_at
	`, doc.ID, doc.Filename, doc.Path, doc.ChunkCount, doc.IngestedAt)
	if err != nil {
		return fmt.Errorf("recording document: %w", err)
	}
	return nil
}

// List returns all ledger entries, most recent first.
func (s *Store) List(ctx context.Context) ([]domain.IngestedDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, path, chunk_count, ingested_at
		FROM documents
		ORDER BY ingested_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.IngestedDocument
	for rows.Next() {
		var doc domain.IngestedDocument
		var ingestedAt time.Time
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Path, &doc.ChunkCount, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.IngestedAt = ingestedAt
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Clear removes all ledger entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
