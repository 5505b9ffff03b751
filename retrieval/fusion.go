package retrieval

import (
	"slices"
	"strings"

	"github.com/cvignesh/legal-assistant/core"
)

// normalizeScores rescales each candidate's raw score into [0,1] within
// the given result list using min-max normalization. When every score in
// the list is identical (including singleton lists) all candidates get
// 1.0, avoiding division by zero while keeping the list comparable.
func normalizeScores(candidates []*core.Candidate) {
	if len(candidates) == 0 {
		return
	}

	minScore, maxScore := candidates[0].RawScore, candidates[0].RawScore
	for _, c := range candidates[1:] {
		if c.RawScore < minScore {
			minScore = c.RawScore
		}
		if c.RawScore > maxScore {
			maxScore = c.RawScore
		}
	}

	if maxScore == minScore {
		for _, c := range candidates {
			c.NormalizedScore = 1.0
		}
		return
	}

	span := maxScore - minScore
	for _, c := range candidates {
		c.NormalizedScore = (c.RawScore - minScore) / span
	}
}

// fuseCandidates merges the two retrievers' normalized result lists into
// one ranked candidate set. Fusion is additive: a chunk found by both
// methods accumulates both weighted scores and is labeled hybrid, which
// rewards agreement between the signals. Candidates must already be
// normalized. The result is sorted by descending fused score, ties broken
// by chunk ID for determinism.
func fuseCandidates(vector, keyword []*core.Candidate, vectorWeight, keywordWeight float64) []*core.Candidate {
	fused := make(map[string]*core.Candidate, len(vector)+len(keyword))

	for _, c := range vector {
		c.FusedScore = c.NormalizedScore * vectorWeight
		c.Source = core.SourceVector
		fused[c.Chunk.ID] = c
	}

	for _, c := range keyword {
		if existing, ok := fused[c.Chunk.ID]; ok {
			existing.FusedScore += c.NormalizedScore * keywordWeight
			existing.Source = core.SourceHybrid
			continue
		}
		c.FusedScore = c.NormalizedScore * keywordWeight
		c.Source = core.SourceKeyword
		fused[c.Chunk.ID] = c
	}

	merged := make([]*core.Candidate, 0, len(fused))
	for _, c := range fused {
		c.Score = c.FusedScore
		merged = append(merged, c)
	}

	slices.SortFunc(merged, func(a, b *core.Candidate) int {
		if a.FusedScore > b.FusedScore {
			return -1
		}
		if a.FusedScore < b.FusedScore {
			return 1
		}
		return strings.Compare(a.Chunk.ID, b.Chunk.ID)
	})

	return merged
}
