package ingestion

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmbeddingMismatch is returned when the embedder breaks its contract
	// by returning a different number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding result mismatch")
)
