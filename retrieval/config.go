package retrieval

import (
	"fmt"
	"math"
)

// Dedup strategy names accepted by Config.DedupStrategy.
const (
	DedupIdentity   = "identity"
	DedupSimilarity = "similarity"
	DedupBoth       = "both"
)

const weightTolerance = 1e-9

// Config holds the tuning parameters for one retrieval pipeline.
type Config struct {
	// VectorTopK is the number of candidates requested from vector search.
	VectorTopK int
	// VectorMinScore is the minimum cosine similarity for vector candidates.
	VectorMinScore float64
	// VectorOverfetch multiplies VectorTopK to size the nearest-neighbor
	// candidate pool, preserving recall before filtering.
	VectorOverfetch int

	// KeywordTopK is the number of candidates requested from keyword search.
	KeywordTopK int
	// KeywordMinScore is the minimum lexical score for keyword candidates.
	KeywordMinScore float64

	// VectorWeight and KeywordWeight blend the normalized scores during
	// fusion. They must sum to 1.0.
	VectorWeight  float64
	KeywordWeight float64

	// HybridMinScore is the fused-score gate: candidates below it are
	// dropped after fusion and again after reranking.
	HybridMinScore float64
	// ScoreEpsilon drops near-zero final scores regardless of the gate.
	ScoreEpsilon float64

	// DedupStrategy selects the deduplication policy: identity, similarity,
	// or both. Unknown values fall back to identity with a logged warning.
	DedupStrategy string
	// DedupThreshold is the text-similarity ratio at or above which two
	// candidates count as near-duplicates.
	DedupThreshold float64

	// BroadRerank toggles the first rerank stage; BroadTopN bounds its output.
	BroadRerank bool
	BroadTopN   int

	// PrecisionRerank toggles the second rerank stage; PrecisionTopN bounds
	// its output.
	PrecisionRerank bool
	PrecisionTopN   int
}

// DefaultConfig returns the standard pipeline tuning.
func DefaultConfig() *Config {
	return &Config{
		VectorTopK:      100,
		VectorMinScore:  0.6,
		VectorOverfetch: 10,
		KeywordTopK:     100,
		KeywordMinScore: 0.3,
		VectorWeight:    0.7,
		KeywordWeight:   0.3,
		HybridMinScore:  0.10,
		ScoreEpsilon:    0.01,
		DedupStrategy:   DedupIdentity,
		DedupThreshold:  0.95,
		BroadRerank:     true,
		BroadTopN:       20,
		PrecisionRerank: true,
		PrecisionTopN:   10,
	}
}

// Validate checks the configuration, failing fast on contract violations.
// An unknown dedup strategy is deliberately not an error here: the
// deduplicator fails closed to identity instead.
func (c *Config) Validate() error {
	if math.Abs(c.VectorWeight+c.KeywordWeight-1.0) > weightTolerance {
		return fmt.Errorf("%w: vector=%v keyword=%v", ErrInvalidWeights, c.VectorWeight, c.KeywordWeight)
	}
	if c.VectorWeight < 0 || c.KeywordWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidWeights)
	}
	if c.VectorTopK <= 0 {
		return fmt.Errorf("%w: VectorTopK must be positive, got %d", ErrInvalidConfig, c.VectorTopK)
	}
	if c.KeywordTopK <= 0 {
		return fmt.Errorf("%w: KeywordTopK must be positive, got %d", ErrInvalidConfig, c.KeywordTopK)
	}
	if c.VectorOverfetch <= 0 {
		return fmt.Errorf("%w: VectorOverfetch must be positive, got %d", ErrInvalidConfig, c.VectorOverfetch)
	}
	if c.DedupThreshold < 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("%w: DedupThreshold must be in [0,1], got %v", ErrInvalidConfig, c.DedupThreshold)
	}
	if c.ScoreEpsilon < 0 {
		return fmt.Errorf("%w: ScoreEpsilon must be non-negative, got %v", ErrInvalidConfig, c.ScoreEpsilon)
	}
	if c.BroadRerank && c.BroadTopN <= 0 {
		return fmt.Errorf("%w: BroadTopN must be positive, got %d", ErrInvalidConfig, c.BroadTopN)
	}
	if c.PrecisionRerank && c.PrecisionTopN <= 0 {
		return fmt.Errorf("%w: PrecisionTopN must be positive, got %d", ErrInvalidConfig, c.PrecisionTopN)
	}
	return nil
}
