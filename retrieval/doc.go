// Package retrieval defines the passage model and retrieval contract used by
// the multi-hop pipeline, along with keyword-scoring helpers shared by the
// concrete backends.
//
// Backends live in subpackages, mirroring each other's API:
//
//   - retrieval/memory: in-process store, good for tests and small corpora
//   - retrieval/sqlite: SQLite-backed store (mattn/go-sqlite3)
//   - retrieval/postgres: PostgreSQL-backed store (jackc/pgx)
//   - retrieval/redis: Redis-backed store (redis/go-redis)
//
// All backends implement the Retriever interface:
//
//	store := memory.NewStore()
//	store.Add(ctx, passages)
//	top, err := store.Retrieve(ctx, "gary zukav first book", 3)
//
// Passages travel on the wire in "title | body" form; ParsePassage and
// Passage.String convert between the two representations.
package retrieval
