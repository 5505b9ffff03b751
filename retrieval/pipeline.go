package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cvignesh/legal-assistant/ai"
	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/storage"
)

// Pipeline orchestrates hybrid retrieval: concurrent vector and keyword
// search, score fusion, deduplication, the two-stage rerank cascade, and
// the final quality gate. A Pipeline is stateless between queries and
// safe for concurrent use.
type Pipeline struct {
	vector    Retriever
	keyword   Retriever
	dedup     *Deduplicator
	broad     Reranker
	precision Reranker
	ranker    ai.RelevanceRanker
	config    *Config
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithConfig replaces the default pipeline configuration.
func WithConfig(config *Config) Option {
	return func(p *Pipeline) error {
		if config != nil {
			p.config = config
		}
		return nil
	}
}

// WithRelevanceRanker supplies the external relevance service backing
// the broad rerank stage. Without one the stage runs disabled.
func WithRelevanceRanker(ranker ai.RelevanceRanker) Option {
	return func(p *Pipeline) error {
		p.ranker = ranker
		return nil
	}
}

// WithVectorRetriever replaces the default vector retriever.
func WithVectorRetriever(retriever Retriever) Option {
	return func(p *Pipeline) error {
		p.vector = retriever
		return nil
	}
}

// WithKeywordRetriever replaces the default keyword retriever.
func WithKeywordRetriever(retriever Retriever) Option {
	return func(p *Pipeline) error {
		p.keyword = retriever
		return nil
	}
}

// NewPipeline creates a retrieval pipeline over the given repository and
// AI provider. Configuration violations fail here, not at query time.
func NewPipeline(repository storage.ChunkRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		config: DefaultConfig(),
		logger: slog.Default().With("component", "retrieval-pipeline"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	if p.vector == nil {
		p.vector = NewVectorRetriever(repository, provider.Embedder(),
			p.config.VectorTopK, p.config.VectorMinScore, p.config.VectorOverfetch)
	}
	if p.keyword == nil {
		p.keyword = NewKeywordRetriever(repository, p.config.KeywordTopK, p.config.KeywordMinScore)
	}

	p.dedup = NewDeduplicator(p.config.DedupStrategy, p.config.DedupThreshold)

	if p.config.BroadRerank {
		if p.ranker != nil {
			p.broad = NewBroadReranker(p.ranker, p.config.BroadTopN)
		} else {
			p.logger.Warn("broad rerank enabled but no relevance ranker configured, stage disabled")
		}
	}
	if p.config.PrecisionRerank {
		p.precision = NewPrecisionReranker(provider.Completer(), p.config.PrecisionTopN)
	}

	return p, nil
}

// Search runs one pipeline execution for the query.
// Retrieval failures (embedding, store) are fatal; rerank failures
// degrade to pass-through and are recorded in the response.
func (p *Pipeline) Search(ctx context.Context, query *core.SearchQuery) (*core.SearchResponse, error) {
	return p.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor runs one pipeline execution with per-stage
// observability callbacks.
func (p *Pipeline) SearchWithMonitor(ctx context.Context, query *core.SearchQuery, monitor SearchMonitor) (*core.SearchResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := core.ValidateSearchQuery(query); err != nil {
		return nil, err
	}

	start := time.Now()
	monitor.Start(query)

	filter := storage.FilterFromQuery(query)

	// 1. Vector and keyword retrieval have no data dependency and run
	// concurrently. Either failing fails the query: there is no
	// meaningful result without candidates.
	var (
		vectorCands  []*core.Candidate
		keywordCands []*core.Candidate
		vectorErr    error
		keywordErr   error
		wg           sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		vectorCands, vectorErr = p.vector.Retrieve(ctx, query.Query, filter)
	}()
	go func() {
		defer wg.Done()
		keywordCands, keywordErr = p.keyword.Retrieve(ctx, query.Query, filter)
	}()
	wg.Wait()

	if vectorErr != nil {
		p.logger.Error("vector retrieval failed", "query", query.Query, "err", vectorErr)
		return nil, fmt.Errorf("vector retrieval: %w", vectorErr)
	}
	if keywordErr != nil {
		p.logger.Error("keyword retrieval failed", "query", query.Query, "err", keywordErr)
		return nil, fmt.Errorf("keyword retrieval: %w", keywordErr)
	}
	monitor.AfterVectorRetrieval(vectorCands)
	monitor.AfterKeywordRetrieval(keywordCands)

	// 2. Normalize per retriever, fuse, and gate on the fused score.
	normalizeScores(vectorCands)
	normalizeScores(keywordCands)
	fused := fuseCandidates(vectorCands, keywordCands, p.config.VectorWeight, p.config.KeywordWeight)

	gated := fused[:0]
	for _, c := range fused {
		if c.FusedScore >= p.config.HybridMinScore {
			gated = append(gated, c)
		}
	}
	monitor.AfterFusion(gated)

	// 3. Deduplicate.
	deduped := p.dedup.Deduplicate(gated)
	monitor.AfterDedup(deduped)

	// 4. Rerank cascade. A disabled stage passes input through truncated
	// to its bound.
	var degradations []string

	stage1 := deduped
	if p.broad != nil {
		outcome := p.broad.Rerank(ctx, query.Query, stage1)
		if outcome.Degraded {
			degradations = append(degradations, p.broad.Name()+": "+outcome.Reason)
		}
		stage1 = outcome.Candidates
		monitor.AfterBroadRerank(outcome)
	} else {
		stage1 = truncate(stage1, p.config.BroadTopN)
	}
	afterRerankCount := len(stage1)

	final := stage1
	if p.precision != nil {
		outcome := p.precision.Rerank(ctx, query.Query, final)
		if outcome.Degraded {
			degradations = append(degradations, p.precision.Name()+": "+outcome.Reason)
		}
		final = outcome.Candidates
		monitor.AfterPrecisionRerank(outcome)
	} else {
		final = truncate(final, p.config.PrecisionTopN)
	}

	// 5. Final quality gate: drop anything below the hybrid threshold,
	// and always drop near-zero scores a reranker may have emitted for
	// an irrelevant item. Empty is a valid outcome.
	kept := make([]*core.Candidate, 0, len(final))
	for _, c := range final {
		if c.Score >= p.config.HybridMinScore && c.Score >= p.config.ScoreEpsilon {
			kept = append(kept, c)
		}
	}
	kept = truncate(kept, query.TopK)

	results := make([]*core.SearchResult, len(kept))
	for i, c := range kept {
		results[i] = c.Result()
	}

	response := &core.SearchResponse{
		Query:            query.Query,
		Results:          results,
		TotalResults:     len(results),
		ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
		VectorCount:      len(vectorCands),
		KeywordCount:     len(keywordCands),
		AfterDedupCount:  len(deduped),
		AfterRerankCount: afterRerankCount,
		Degradations:     degradations,
	}
	monitor.Finish(response)

	p.logger.Info("search complete",
		"query", query.Query,
		"results", len(results),
		"vector", response.VectorCount,
		"keyword", response.KeywordCount,
		"degraded", len(degradations) > 0,
		"elapsed_ms", response.ProcessingTimeMS)

	return response, nil
}
