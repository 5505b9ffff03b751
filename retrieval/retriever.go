package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cvignesh/legal-assistant/ai"
	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/storage"
)

// Retriever produces scored candidates for a query under a store filter.
// Implementations are interchangeable first-stage retrieval methods.
type Retriever interface {
	Retrieve(ctx context.Context, query string, filter *storage.Filter) ([]*core.Candidate, error)
}

// VectorRetriever finds candidates by embedding similarity.
type VectorRetriever struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	topK       int
	minScore   float64
	overfetch  int
	logger     *slog.Logger
}

var _ Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever creates a vector retriever with the given tuning.
func NewVectorRetriever(repository storage.ChunkRepository, embedder ai.Embedder, topK int, minScore float64, overfetch int) *VectorRetriever {
	return &VectorRetriever{
		repository: repository,
		embedder:   embedder,
		topK:       topK,
		minScore:   minScore,
		overfetch:  overfetch,
		logger:     slog.Default().With("component", "vector-retriever"),
	}
}

// Retrieve embeds the query and runs a nearest-neighbor search.
// Embedding and store errors are fatal: there is no meaningful fallback
// when a retrieval method cannot produce candidates.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, filter *storage.Filter) ([]*core.Candidate, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := r.repository.VectorSearch(ctx, vector, r.topK, r.topK*r.overfetch, r.minScore, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	r.logger.Debug("vector retrieval complete", "candidates", len(scored))
	return candidatesFrom(scored, core.SourceVector), nil
}

// KeywordRetriever finds candidates by lexical relevance.
type KeywordRetriever struct {
	repository storage.ChunkRepository
	topK       int
	minScore   float64
	logger     *slog.Logger
}

var _ Retriever = (*KeywordRetriever)(nil)

// NewKeywordRetriever creates a keyword retriever with the given tuning.
func NewKeywordRetriever(repository storage.ChunkRepository, topK int, minScore float64) *KeywordRetriever {
	return &KeywordRetriever{
		repository: repository,
		topK:       topK,
		minScore:   minScore,
		logger:     slog.Default().With("component", "keyword-retriever"),
	}
}

// Retrieve runs a full-text relevance search.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, filter *storage.Filter) ([]*core.Candidate, error) {
	scored, err := r.repository.KeywordSearch(ctx, query, r.topK, r.minScore, filter)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	r.logger.Debug("keyword retrieval complete", "candidates", len(scored))
	return candidatesFrom(scored, core.SourceKeyword), nil
}

// candidatesFrom wraps scored chunks as pipeline candidates.
func candidatesFrom(scored []*core.ScoredChunk, source core.Source) []*core.Candidate {
	candidates := make([]*core.Candidate, len(scored))
	for i, sc := range scored {
		candidates[i] = &core.Candidate{
			Chunk:    sc.Chunk,
			RawScore: sc.Score,
			Score:    sc.Score,
			Source:   source,
		}
	}
	return candidates
}
