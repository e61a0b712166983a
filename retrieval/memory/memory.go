// Package memory provides an in-process passage store. It is the default
// backend for tests and small corpora that fit in memory.
package memory

import (
	"context"
	"sync"

	"github.com/smallnest/longformqa/retrieval"
)

// Store is an in-memory passage store implementing retrieval.Retriever.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	passages []retrieval.Passage
}

var _ retrieval.Retriever = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Add appends passages to the store.
func (s *Store) Add(ctx context.Context, passages []retrieval.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = append(s.passages, passages...)
	return nil
}

// Len returns the number of stored passages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}

// Retrieve returns the k passages with the highest keyword overlap with query.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]retrieval.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.passages) == 0 {
		return nil, retrieval.ErrNoPassages
	}

	return retrieval.TopK(query, s.passages, k), nil
}
