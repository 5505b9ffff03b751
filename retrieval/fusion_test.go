package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvignesh/legal-assistant/core"
)

func candidate(id string, rawScore float64) *core.Candidate {
	return &core.Candidate{
		Chunk:    &core.Chunk{ID: id, EmbeddingText: "text for " + id, DocumentType: core.DocumentTypeAct},
		RawScore: rawScore,
		Score:    rawScore,
	}
}

func TestNormalizeScores(t *testing.T) {
	t.Run("distinct scores span [0,1]", func(t *testing.T) {
		candidates := []*core.Candidate{
			candidate("a", 0.91),
			candidate("b", 0.72),
			candidate("c", 0.80),
		}
		normalizeScores(candidates)

		assert.Equal(t, 1.0, candidates[0].NormalizedScore)
		assert.Equal(t, 0.0, candidates[1].NormalizedScore)
		assert.Greater(t, candidates[2].NormalizedScore, 0.0)
		assert.Less(t, candidates[2].NormalizedScore, 1.0)
	})

	t.Run("identical scores all become 1.0", func(t *testing.T) {
		candidates := []*core.Candidate{
			candidate("a", 5.0),
			candidate("b", 5.0),
			candidate("c", 5.0),
		}
		normalizeScores(candidates)

		for _, c := range candidates {
			assert.Equal(t, 1.0, c.NormalizedScore)
		}
	})

	t.Run("singleton list becomes 1.0", func(t *testing.T) {
		candidates := []*core.Candidate{candidate("a", 0.42)}
		normalizeScores(candidates)
		assert.Equal(t, 1.0, candidates[0].NormalizedScore)
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		normalizeScores(nil)
	})
}

func TestFuseCandidates(t *testing.T) {
	t.Run("hybrid chunk accumulates both weighted scores", func(t *testing.T) {
		// Query "Section 138 cheque dishonour": vector finds A and B,
		// keyword finds B and C. B must come out hybrid and on top.
		vector := []*core.Candidate{
			candidate("A", 0.91),
			candidate("B", 0.72),
		}
		keyword := []*core.Candidate{
			candidate("B", 8.3),
			candidate("C", 5.1),
		}
		normalizeScores(vector)
		normalizeScores(keyword)

		fused := fuseCandidates(vector, keyword, 0.7, 0.3)
		require.Len(t, fused, 3)

		byID := make(map[string]*core.Candidate)
		for _, c := range fused {
			byID[c.Chunk.ID] = c
		}

		b := byID["B"]
		assert.Equal(t, core.SourceHybrid, b.Source)
		// B: vector normalized 0.0 (min of its list), keyword normalized 1.0 (max).
		assert.InDelta(t, 0.7*0.0+0.3*1.0, b.FusedScore, 1e-9)
		assert.Greater(t, b.FusedScore, byID["C"].FusedScore)

		assert.Equal(t, core.SourceVector, byID["A"].Source)
		assert.InDelta(t, 0.7*1.0, byID["A"].FusedScore, 1e-9)
		assert.Equal(t, core.SourceKeyword, byID["C"].Source)
		assert.InDelta(t, 0.3*0.0, byID["C"].FusedScore, 1e-9)
	})

	t.Run("sorted descending by fused score", func(t *testing.T) {
		vector := []*core.Candidate{candidate("a", 0.9), candidate("b", 0.6), candidate("c", 0.8)}
		keyword := []*core.Candidate{candidate("d", 3.0), candidate("b", 7.0)}
		normalizeScores(vector)
		normalizeScores(keyword)

		fused := fuseCandidates(vector, keyword, 0.7, 0.3)
		for i := 1; i < len(fused); i++ {
			assert.GreaterOrEqual(t, fused[i-1].FusedScore, fused[i].FusedScore)
		}
	})

	t.Run("working score equals fused score", func(t *testing.T) {
		vector := []*core.Candidate{candidate("a", 0.9)}
		keyword := []*core.Candidate{candidate("a", 4.0)}
		normalizeScores(vector)
		normalizeScores(keyword)

		fused := fuseCandidates(vector, keyword, 0.7, 0.3)
		require.Len(t, fused, 1)
		assert.Equal(t, fused[0].FusedScore, fused[0].Score)
		// Single-result lists normalize to 1.0 each, so a hybrid hit
		// carries the full combined weight.
		assert.InDelta(t, 1.0, fused[0].FusedScore, 1e-9)
	})

	t.Run("independent of candidate order", func(t *testing.T) {
		fuse := func(vector, keyword []*core.Candidate) map[string]*core.Candidate {
			normalizeScores(vector)
			normalizeScores(keyword)
			byID := make(map[string]*core.Candidate)
			for _, c := range fuseCandidates(vector, keyword, 0.7, 0.3) {
				byID[c.Chunk.ID] = c
			}
			return byID
		}

		forward := fuse(
			[]*core.Candidate{candidate("a", 0.9), candidate("b", 0.7), candidate("c", 0.8)},
			[]*core.Candidate{candidate("b", 8.0), candidate("d", 3.0)},
		)
		reversed := fuse(
			[]*core.Candidate{candidate("c", 0.8), candidate("b", 0.7), candidate("a", 0.9)},
			[]*core.Candidate{candidate("d", 3.0), candidate("b", 8.0)},
		)

		require.Len(t, reversed, len(forward))
		for id, c := range forward {
			assert.InDelta(t, c.FusedScore, reversed[id].FusedScore, 1e-9, id)
			assert.Equal(t, c.Source, reversed[id].Source, id)
		}
		// The both-hit chunk carries the additive formula either way.
		assert.InDelta(t, 0.7*0.0+0.3*1.0, reversed["b"].FusedScore, 1e-9)
		assert.Equal(t, core.SourceHybrid, reversed["b"].Source)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		build := func() []*core.Candidate {
			vector := []*core.Candidate{candidate("a", 0.9), candidate("b", 0.7), candidate("c", 0.8)}
			keyword := []*core.Candidate{candidate("c", 6.0), candidate("d", 6.0), candidate("e", 2.0)}
			normalizeScores(vector)
			normalizeScores(keyword)
			return fuseCandidates(vector, keyword, 0.7, 0.3)
		}

		first := build()
		second := build()
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Chunk.ID, second[i].Chunk.ID)
			assert.Equal(t, first[i].FusedScore, second[i].FusedScore)
			assert.Equal(t, first[i].Source, second[i].Source)
		}
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, fuseCandidates(nil, nil, 0.7, 0.3))

		vector := []*core.Candidate{candidate("a", 0.9)}
		normalizeScores(vector)
		fused := fuseCandidates(vector, nil, 0.7, 0.3)
		require.Len(t, fused, 1)
		assert.Equal(t, core.SourceVector, fused[0].Source)
	})
}
