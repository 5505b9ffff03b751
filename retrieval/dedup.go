package retrieval

import (
	"log/slog"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/cvignesh/legal-assistant/core"
)

// Deduplicator collapses exact and near-duplicate candidates.
type Deduplicator struct {
	strategy  string
	threshold float64
	logger    *slog.Logger
}

// NewDeduplicator creates a deduplicator for the named strategy.
// An unrecognized strategy fails closed to identity with a logged
// warning, never by passing all candidates through unfiltered.
func NewDeduplicator(strategy string, threshold float64) *Deduplicator {
	logger := slog.Default().With("component", "deduplicator")

	switch strategy {
	case DedupIdentity, DedupSimilarity, DedupBoth:
	default:
		logger.Warn("unknown dedup strategy, falling back to identity", "strategy", strategy)
		strategy = DedupIdentity
	}

	return &Deduplicator{
		strategy:  strategy,
		threshold: threshold,
		logger:    logger,
	}
}

// Strategy returns the effective strategy after any fallback.
func (d *Deduplicator) Strategy() string {
	return d.strategy
}

// Deduplicate removes duplicates under the active policy, preserving
// input order. The input is expected to be score-ordered, so the
// highest-scored instance of a duplicate group survives.
func (d *Deduplicator) Deduplicate(candidates []*core.Candidate) []*core.Candidate {
	switch d.strategy {
	case DedupSimilarity:
		return d.dedupBySimilarity(candidates)
	case DedupBoth:
		return d.dedupBySimilarity(d.dedupByID(candidates))
	default:
		return d.dedupByID(candidates)
	}
}

// dedupByID drops candidates whose chunk ID has already been seen.
func (d *Deduplicator) dedupByID(candidates []*core.Candidate) []*core.Candidate {
	seen := make(map[string]bool, len(candidates))
	unique := make([]*core.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if seen[c.Chunk.ID] {
			continue
		}
		seen[c.Chunk.ID] = true
		unique = append(unique, c)
	}
	return unique
}

// dedupBySimilarity rejects candidates whose text is too close to any
// already-accepted candidate. O(n^2), acceptable because candidate sets
// entering this stage are capped to a few hundred.
func (d *Deduplicator) dedupBySimilarity(candidates []*core.Candidate) []*core.Candidate {
	accepted := make([]*core.Candidate, 0, len(candidates))

	for _, c := range candidates {
		duplicate := false
		for _, a := range accepted {
			if similarityRatio(c.Chunk.EmbeddingText, a.Chunk.EmbeddingText) >= d.threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// similarityRatio computes a normalized word-sequence similarity in [0,1].
func similarityRatio(a, b string) float64 {
	matcher := difflib.NewMatcher(strings.Fields(a), strings.Fields(b))
	return matcher.Ratio()
}
