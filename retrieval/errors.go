package retrieval

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when no chunk repository is provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrAIProviderRequired is returned when no AI provider is provided.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// ErrInvalidWeights is returned when fusion weights do not sum to 1.0.
	ErrInvalidWeights = errors.New("fusion weights must sum to 1.0")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("invalid retrieval configuration")
)
