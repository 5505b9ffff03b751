package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails or the service
	// returns an empty result.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, in input order. Implementations must fail loudly: a nil result
	// or a length mismatch with the input is an error, never silently
	// returned, because callers treat any such anomaly as a broken contract.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer produces a free-form completion from an LLM.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the system and user prompts to the model and returns
	// the raw response text. Callers own all prompt construction and
	// response parsing.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RankedDocument is one scored entry returned by a RelevanceRanker.
// Index refers to the position of the document in the input slice.
type RankedDocument struct {
	Index int
	Score float64
}

// RelevanceRanker scores documents against a query using an external
// relevance-scoring service (cross-encoder style). Implementations must be
// thread-safe for concurrent use.
type RelevanceRanker interface {
	// Rank scores the documents against the query in one batch call and
	// returns up to topN entries ordered by descending relevance. The
	// returned indices refer to positions in the input slice; the service
	// may omit inputs it considers irrelevant.
	Rank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Completer
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the LLM completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
