package storage

import (
	"context"

	"github.com/cvignesh/legal-assistant/core"
)

// Repository provides common storage operations shared across backends.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing and searching chunks.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more chunks to storage.
	// For chunks with empty ID, derives a content-based ID from EmbeddingText.
	// Sets CreatedAt if not already set, and maintains the keyword index.
	// Returns the chunks with IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks replaces existing chunks and reindexes their text.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunks removes chunks by their IDs, along with keyword index
	// entries. Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...string) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id string) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...string) ([]*core.Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// ForEachChunk iterates over all stored chunks in key order.
	// Iteration stops early if fn returns an error, which is propagated.
	ForEachChunk(ctx context.Context, fn func(chunk *core.Chunk) error) error

	// VectorSearch finds chunks by embedding similarity.
	// It considers up to numCandidates nearest chunks and returns those with
	// cosine similarity >= minScore matching the filter, up to limit results,
	// ordered by similarity (highest first).
	VectorSearch(ctx context.Context, vector []float32, limit, numCandidates int, minScore float64, filter *Filter) ([]*core.ScoredChunk, error)

	// KeywordSearch finds chunks by lexical match against the indexed text
	// fields. Returns chunks scoring >= minScore matching the filter, up to
	// limit results, ordered by score (highest first).
	KeywordSearch(ctx context.Context, query string, limit int, minScore float64, filter *Filter) ([]*core.ScoredChunk, error)
}
