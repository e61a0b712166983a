package loader

import (
	"context"
	"fmt"

	"github.com/smallnest/longformqa/retrieval"
)

// Loader loads passages from some source.
type Loader interface {
	Load(ctx context.Context) ([]retrieval.Passage, error)
}

// Adder accepts passages. Every retrieval backend implements it.
type Adder interface {
	Add(ctx context.Context, passages []retrieval.Passage) error
}

// LoadInto loads all passages from l and adds them to dst, returning the
// number of passages loaded.
func LoadInto(ctx context.Context, l Loader, dst Adder) (int, error) {
	passages, err := l.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load passages: %w", err)
	}
	if err := dst.Add(ctx, passages); err != nil {
		return 0, fmt.Errorf("failed to store passages: %w", err)
	}
	return len(passages), nil
}
