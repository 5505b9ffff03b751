package mock

import (
	"context"

	"github.com/cvignesh/legal-assistant/ai"
)

// MockRanker is a test double for ai.RelevanceRanker.
// It allows custom behavior injection via function fields.
type MockRanker struct {
	// RankFunc is called by Rank if set.
	// If nil, uses default behavior: input order with descending scores.
	RankFunc func(ctx context.Context, query string, documents []string, topN int) ([]ai.RankedDocument, error)

	callCount int
}

// NewMockRanker creates a mock ranker with default deterministic behavior.
func NewMockRanker() *MockRanker {
	return &MockRanker{}
}

// Rank returns the injected ranking, or the documents in input order
// with linearly descending scores, truncated to topN.
func (m *MockRanker) Rank(ctx context.Context, query string, documents []string, topN int) ([]ai.RankedDocument, error) {
	m.callCount++

	if m.RankFunc != nil {
		return m.RankFunc(ctx, query, documents, topN)
	}

	n := len(documents)
	if topN > 0 && topN < n {
		n = topN
	}
	ranked := make([]ai.RankedDocument, n)
	for i := 0; i < n; i++ {
		ranked[i] = ai.RankedDocument{
			Index: i,
			Score: 1.0 - float64(i)/float64(len(documents)),
		}
	}
	return ranked, nil
}

// CallCount returns the number of times Rank was called.
func (m *MockRanker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRanker) Reset() {
	m.callCount = 0
	m.RankFunc = nil
}
