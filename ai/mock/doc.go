// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// ai.RelevanceRanker, and ai.AIProvider for use in unit tests. The mocks
// allow tests to run without external AI service dependencies and enable
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embedding, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockRanker := mock.NewMockRanker()
//	mockRanker.RankFunc = func(ctx context.Context, query string, documents []string, topN int) ([]ai.RankedDocument, error) {
//	    return []ai.RankedDocument{{Index: 1, Score: 0.9}}, nil
//	}
//
//	// Check call counts
//	count := mockRanker.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCompleter: Returns an empty completion
//   - MockRanker: Returns documents in input order with descending scores
//   - MockProvider: Aggregates mock embedder and completer
package mock
