// Package pgvector provides a vector index adapter backed by Postgres
// with the pgvector extension, for deployments that already run
// Postgres and do not want a separate vector database.
package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTable is the chunk table name.
const DefaultTable = "financial_documents"

// Index stores chunks in a pgvector table with an ivfflat cosine index.
type Index struct {
	db         *sql.DB
	table      string
	vectorSize int
}

// New connects to Postgres and returns an index over the named table,
// falling back to DefaultTable when table is empty. The table itself is
// created lazily by EnsureCollection once the vector size is known.
func New(dsn, table string) (*Index, error) {
	if table == "" {
		table = DefaultTable
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Index{db: db, table: table}, nil
}

// EnsureCollection creates the chunk table with the given vector size.
// An existing table with a different size is dropped and recreated;
// stale dimensions would make every search silently wrong.
func (p *Index) EnsureCollection(ctx context.Context, vectorSize int) error {
	current, err := p.currentVectorSize(ctx)
	if err != nil {
		return fmt.Errorf("inspect table: %w", err)
	}
	if current != 0 && current != vectorSize {
		logger.Warn("Table %s has vector size %d, expected %d; recreating (existing rows are lost)",
			p.table, current, vectorSize)
		if _, err := p.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE %s`, p.table)); err != nil {
			return fmt.Errorf("drop stale table: %w", err)
		}
	}

	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS %s (
  id         text PRIMARY KEY,
  text       text NOT NULL,
  payload    jsonb,
  embedding  vector(%d),
  created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s
  USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
`, p.table, vectorSize, p.table, p.table)

	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	p.vectorSize = vectorSize
	return nil
}

// Upsert writes chunks in one transaction.
func (p *Index) Upsert(ctx context.Context, ids []string, vectors [][]float32, payloads []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(payloads) {
		return fmt.Errorf("upsert %d ids, %d vectors, %d payloads: %w",
			len(ids), len(vectors), len(payloads), domain.ErrShapeMismatch)
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`
INSERT INTO %s (id, text, payload, embedding)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
  text = EXCLUDED.text,
  payload = EXCLUDED.payload,
  embedding = EXCLUDED.embedding;
`, p.table)

	for i, id := range ids {
		text, _ := payloads[i][driven.PayloadTextKey].(string)
		payloadJSON, err := json.Marshal(payloads[i])
		if err != nil {
			return fmt.Errorf("marshal payload %d: %w", i, err)
		}
		embLit, err := vectorLiteral(vectors[i], p.vectorSize)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, id, text, payloadJSON, embLit); err != nil {
			return fmt.Errorf("upsert point %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Search returns the closest chunks by cosine similarity, descending by
// score, excluding rows below scoreThreshold.
func (p *Index) Search(
	ctx context.Context, vector []float32, limit int, scoreThreshold float64,
) ([]domain.RetrievalResult, error) {
	embLit, err := vectorLiteral(vector, p.vectorSize)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT id, text, payload, 1 - (embedding <=> $1) AS score
FROM %s
WHERE 1 - (embedding <=> $1) >= $2
ORDER BY embedding <=> $1
LIMIT $3;
`, p.table)

	rows, err := p.db.QueryContext(ctx, query, embLit, scoreThreshold, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievalResult
	for rows.Next() {
		var r domain.RetrievalResult
		var payloadBytes []byte
		if err := rows.Scan(&r.ID, &r.Text, &payloadBytes, &r.Score); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if len(payloadBytes) > 0 {
			var payload map[string]any
			_ = json.Unmarshal(payloadBytes, &payload)
			r.Metadata = driven.MetadataFromPayload(payload)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Clear removes all rows but keeps the table and its indexes.
func (p *Index) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf(`TRUNCATE %s`, p.table)); err != nil {
		return fmt.Errorf("truncate table: %w", err)
	}
	return nil
}

// Health reports whether the database is reachable.
func (p *Index) Health(ctx context.Context) bool {
	return p.db.PingContext(ctx) == nil
}

// Info returns collection metadata.
func (p *Index) Info(ctx context.Context) (domain.CollectionInfo, error) {
	size, err := p.currentVectorSize(ctx)
	if err != nil {
		return domain.CollectionInfo{}, fmt.Errorf("inspect table: %w", err)
	}

	var count int64
	if size != 0 {
		row := p.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, p.table))
		if err := row.Scan(&count); err != nil {
			return domain.CollectionInfo{}, fmt.Errorf("count rows: %w", err)
		}
	}

	return domain.CollectionInfo{
		Name:       p.table,
		VectorSize: size,
		Distance:   "Cosine",
		PointCount: count,
		Status:     "green",
	}, nil
}

// Close closes the database connection.
func (p *Index) Close() error {
	return p.db.Close()
}

// currentVectorSize reads the embedding column's declared dimension, or
// zero when the table does not exist.
func (p *Index) currentVectorSize(ctx context.Context) (int, error) {
	row := p.db.QueryRowContext(ctx, `
SELECT coalesce(a.atttypmod, 0)
FROM pg_attribute a
JOIN pg_class c ON c.oid = a.attrelid
WHERE c.relname = $1 AND a.attname = 'embedding';
`, p.table)

	var size int
	if err := row.Scan(&size); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	p.vectorSize = size
	return size, nil
}

// vectorLiteral renders a pgvector input literal.
func vectorLiteral(embedding []float32, dim int) (string, error) {
	if len(embedding) == 0 {
		return "", fmt.Errorf("empty embedding: %w", domain.ErrDimensionMismatch)
	}
	if dim > 0 && len(embedding) != dim {
		return "", fmt.Errorf("embedding length %d does not match dimension %d: %w",
			len(embedding), dim, domain.ErrDimensionMismatch)
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ",")), nil
}
