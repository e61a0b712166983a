// Package redis provides a Redis-backed passage store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/longformqa/retrieval"
)

// Store implements retrieval.Retriever on top of Redis. Passages are kept in
// a single list so insertion order is preserved for deterministic ranking.
type Store struct {
	client *redis.Client
	prefix string
}

var _ retrieval.Retriever = (*Store)(nil)

// Options configuration for the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Key prefix, default "longformqa:"
}

// NewStore creates a new Redis passage store.
func NewStore(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "longformqa:"
	}

	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) passagesKey() string {
	return s.prefix + "passages"
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Add appends passages to the store.
func (s *Store) Add(ctx context.Context, passages []retrieval.Passage) error {
	if len(passages) == 0 {
		return nil
	}

	values := make([]any, 0, len(passages))
	for _, p := range passages {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal passage: %w", err)
		}
		values = append(values, data)
	}

	if err := s.client.RPush(ctx, s.passagesKey(), values...).Err(); err != nil {
		return fmt.Errorf("failed to push passages to redis: %w", err)
	}
	return nil
}

// Retrieve returns the k passages with the highest keyword overlap with query.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]retrieval.Passage, error) {
	raw, err := s.client.LRange(ctx, s.passagesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load passages from redis: %w", err)
	}
	if len(raw) == 0 {
		return nil, retrieval.ErrNoPassages
	}

	candidates := make([]retrieval.Passage, 0, len(raw))
	for _, item := range raw {
		var p retrieval.Passage
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal passage: %w", err)
		}
		candidates = append(candidates, p)
	}

	return retrieval.TopK(query, candidates, k), nil
}

// Count returns the number of stored passages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, s.passagesKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return n, nil
}

// Clear removes all passages.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.passagesKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear passages: %w", err)
	}
	return nil
}
