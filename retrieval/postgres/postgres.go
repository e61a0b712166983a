// Package postgres provides a PostgreSQL-backed passage store using pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/longformqa/retrieval"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements retrieval.Retriever on top of PostgreSQL.
type Store struct {
	pool      DBPool
	tableName string
}

var _ retrieval.Retriever = (*Store)(nil)

// Options configuration for the Postgres connection
type Options struct {
	ConnString string
	TableName  string // Default "passages"
}

// NewStore creates a new Postgres passage store.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "passages"
	}

	return &Store{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// NewStoreWithPool creates a new Postgres passage store with an existing pool.
// Useful for testing with mocks.
func NewStoreWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "passages"
	}
	return &Store{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the passages table if it doesn't exist
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL
		);
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Add inserts passages into the store.
func (s *Store) Add(ctx context.Context, passages []retrieval.Passage) error {
	query := fmt.Sprintf("INSERT INTO %s (title, body) VALUES ($1, $2)", s.tableName)
	for _, p := range passages {
		if _, err := s.pool.Exec(ctx, query, p.Title, p.Text); err != nil {
			return fmt.Errorf("failed to insert passage: %w", err)
		}
	}
	return nil
}

// Retrieve returns the k passages with the highest keyword overlap with query.
// Candidates are pre-filtered in SQL with ILIKE matches per query token, then
// ranked in process.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]retrieval.Passage, error) {
	tokens := retrieval.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	clauses := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens))
	for i, tok := range tokens {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", i+1, i+1))
		args = append(args, "%"+tok+"%")
	}

	stmt := fmt.Sprintf("SELECT title, body FROM %s WHERE %s ORDER BY id",
		s.tableName, strings.Join(clauses, " OR "))

	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passages: %w", err)
	}
	defer rows.Close()

	var candidates []retrieval.Passage
	for rows.Next() {
		var p retrieval.Passage
		if err := rows.Scan(&p.Title, &p.Text); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		candidates = append(candidates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passages: %w", err)
	}

	return retrieval.TopK(query, candidates, k), nil
}

// Count returns the number of stored passages.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return n, nil
}
