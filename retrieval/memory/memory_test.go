package memory

import (
	"context"
	"testing"

	"github.com/smallnest/longformqa/retrieval"
	"github.com/stretchr/testify/assert"
)

func TestStoreRetrieve(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Add(ctx, []retrieval.Passage{
		{Title: "Gary Zukav", Text: "Gary Zukav is an American spiritual teacher and author."},
		{Title: "The Dancing Wu Li Masters", Text: "The Dancing Wu Li Masters is a 1979 book by Gary Zukav about quantum physics."},
		{Title: "Quantum Mechanics", Text: "Quantum mechanics describes nature at small scales."},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	passages, err := store.Retrieve(ctx, "first book by Gary Zukav", 2)
	assert.NoError(t, err)
	assert.Len(t, passages, 2)
	assert.Equal(t, "The Dancing Wu Li Masters", passages[0].Title)
}

func TestStoreRetrieveNonPositiveK(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Add(ctx, []retrieval.Passage{
		{Title: "France", Text: "Paris is the capital of France."},
	})
	assert.NoError(t, err)

	passages, err := store.Retrieve(ctx, "paris capital", -1)
	assert.NoError(t, err)
	assert.Empty(t, passages)
}

func TestStoreRetrieveEmpty(t *testing.T) {
	store := NewStore()

	_, err := store.Retrieve(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, retrieval.ErrNoPassages)
}
