// Package sqlite provides a SQLite-backed passage store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/longformqa/retrieval"
)

// Store implements retrieval.Retriever on top of a SQLite database.
type Store struct {
	db        *sql.DB
	tableName string
}

var _ retrieval.Retriever = (*Store)(nil)

// Options configuration for the SQLite connection
type Options struct {
	Path      string
	TableName string // Default "passages"
}

// NewStore opens (or creates) a SQLite passage store.
func NewStore(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "passages"
	}

	store := &Store{
		db:        db,
		tableName: tableName,
	}

	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// InitSchema creates the passages table if it doesn't exist
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body TEXT NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts passages into the store.
func (s *Store) Add(ctx context.Context, passages []retrieval.Passage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("INSERT INTO %s (title, body) VALUES (?, ?)", s.tableName)
	for _, p := range passages {
		if _, err := tx.ExecContext(ctx, query, p.Title, p.Text); err != nil {
			return fmt.Errorf("failed to insert passage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Retrieve returns the k passages with the highest keyword overlap with query.
// Candidate rows are pre-filtered in SQL with LIKE matches per query token,
// then ranked in process.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]retrieval.Passage, error) {
	tokens := retrieval.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	clauses := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)*2)
	for _, tok := range tokens {
		clauses = append(clauses, "(lower(title) LIKE ? OR lower(body) LIKE ?)")
		pattern := "%" + tok + "%"
		args = append(args, pattern, pattern)
	}

	stmt := fmt.Sprintf("SELECT title, body FROM %s WHERE %s ORDER BY id",
		s.tableName, strings.Join(clauses, " OR "))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
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
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return n, nil
}
