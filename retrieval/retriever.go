package retrieval

import (
	"context"
	"errors"
)

// ErrNoPassages is returned by backends when the store holds no passages.
var ErrNoPassages = errors.New("no passages in store")

// Retriever retrieves the k most relevant passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string, k int) ([]Passage, error)

// Retrieve calls f.
func (f RetrieverFunc) Retrieve(ctx context.Context, query string, k int) ([]Passage, error) {
	return f(ctx, query, k)
}
