// Package pgvector runs namespaced similarity searches against a Postgres
// table with a pgvector embedding column.
package pgvector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by Store.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Passage is one scored search hit.
type Passage struct {
	Text   string
	Source string
	Score  float32
}

// Store searches a chunk table shaped as
// (namespace text, content text, source text, embedding vector).
type Store struct {
	pool  Pool
	query string
}

// Connect opens a pool and registers the vector type on every connection.
func Connect(ctx context.Context, connString, table string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "pgvector: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "pgvector: connect")
	}
	return New(pool, table), nil
}

// New wraps an existing pool. table may be schema-qualified.
func New(pool Pool, table string) *Store {
	return &Store{pool: pool, query: searchSQL(table)}
}

func searchSQL(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return fmt.Sprintf(`SELECT content, COALESCE(source, ''), 1 - (embedding <=> $1) AS score
FROM %s
WHERE namespace = $2
ORDER BY embedding <=> $1
LIMIT $3`, ident)
}

// Search returns the limit closest chunks in namespace by cosine distance.
func (s *Store) Search(ctx context.Context, vector []float32, namespace string, limit int) ([]Passage, error) {
	rows, err := s.pool.Query(ctx, s.query, pgv.NewVector(vector), namespace, limit)
	if err != nil {
		return nil, eris.Wrap(err, "pgvector: search")
	}
	defer rows.Close()

	var out []Passage
	for rows.Next() {
		var p Passage
		var score float64
		if err := rows.Scan(&p.Text, &p.Source, &score); err != nil {
			return nil, eris.Wrap(err, "pgvector: scan")
		}
		p.Score = float32(score)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "pgvector: rows")
	}
	return out, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
