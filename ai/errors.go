package ai

import "errors"

var (
	// ErrEmbeddingCountMismatch indicates the embedding service returned a
	// different number of vectors than texts submitted. This breaks the
	// batch contract and must not be papered over by callers.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match input count")

	// ErrEmptyEmbedding indicates the embedding service returned no vector
	// for a non-empty input.
	ErrEmptyEmbedding = errors.New("embedding service returned an empty result")
)
