package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cvignesh/legal-assistant/ai"
	"github.com/cvignesh/legal-assistant/core"
)

// RerankOutcome is the tagged result of one rerank stage. Degraded
// outcomes carry best-effort pass-through candidates instead of an
// error: reranking fails open so a ranking-service outage never empties
// the caller's results.
type RerankOutcome struct {
	Candidates []*core.Candidate
	Degraded   bool
	Reason     string
}

// Reranker reorders a candidate set by increasingly precise relevance
// judgment. Implementations bound their own output size.
type Reranker interface {
	// Rerank reorders candidates for the query. It never returns an
	// error: failures surface as a degraded outcome.
	Rerank(ctx context.Context, query string, candidates []*core.Candidate) RerankOutcome

	// Name identifies the stage in diagnostics.
	Name() string
}

// BroadReranker is the first cascade stage: one batch call to an
// external relevance-scoring service narrows hundreds of candidates to
// the top N.
type BroadReranker struct {
	ranker ai.RelevanceRanker
	topN   int
	logger *slog.Logger
}

var _ Reranker = (*BroadReranker)(nil)

// NewBroadReranker creates the broad rerank stage.
func NewBroadReranker(ranker ai.RelevanceRanker, topN int) *BroadReranker {
	return &BroadReranker{
		ranker: ranker,
		topN:   topN,
		logger: slog.Default().With("component", "broad-reranker"),
	}
}

// Name implements Reranker.
func (r *BroadReranker) Name() string { return "broad" }

// Rerank scores all candidate texts in one batch call and keeps the top
// N by relevance. Each survivor's prior score moves to OriginalScore and
// the relevance score becomes its working score.
func (r *BroadReranker) Rerank(ctx context.Context, query string, candidates []*core.Candidate) RerankOutcome {
	if len(candidates) == 0 {
		return RerankOutcome{}
	}

	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Chunk.EmbeddingText
	}

	ranked, err := r.ranker.Rank(ctx, query, documents, r.topN)
	if err != nil {
		return r.degrade(candidates, fmt.Sprintf("relevance service error: %v", err))
	}
	if len(ranked) == 0 {
		return r.degrade(candidates, "relevance service returned no results")
	}

	seen := make(map[int]bool, len(ranked))
	reranked := make([]*core.Candidate, 0, min(len(ranked), r.topN))
	for _, doc := range ranked {
		if doc.Index < 0 || doc.Index >= len(candidates) || seen[doc.Index] {
			r.logger.Warn("discarding invalid rerank index", "index", doc.Index)
			continue
		}
		seen[doc.Index] = true

		c := candidates[doc.Index]
		c.OriginalScore = c.Score
		c.RerankScore = doc.Score
		c.Score = doc.Score
		reranked = append(reranked, c)
		if len(reranked) == r.topN {
			break
		}
	}

	if len(reranked) == 0 {
		return r.degrade(candidates, "no valid indices in relevance response")
	}
	return RerankOutcome{Candidates: reranked}
}

func (r *BroadReranker) degrade(candidates []*core.Candidate, reason string) RerankOutcome {
	r.logger.Warn("broad rerank degraded to pass-through", "reason", reason)
	return RerankOutcome{
		Candidates: truncate(candidates, r.topN),
		Degraded:   true,
		Reason:     reason,
	}
}

const precisionSystemPrompt = `You are a legal research assistant ranking search results. ` +
	`Given a query and a numbered list of legal text passages, reply with a JSON array ` +
	`of the passage numbers ordered from most to least relevant, most relevant first. ` +
	`Consider legal authority, specificity, and how directly each passage answers the query. ` +
	`Reply with the JSON array only.`

// precisionSnippetLen bounds each passage's text in the prompt.
const precisionSnippetLen = 500

// jsonArrayPattern extracts the first JSON array of integers from a
// possibly narrated model response.
var jsonArrayPattern = regexp.MustCompile(`\[[\d,\s]+\]`)

// PrecisionReranker is the second cascade stage: an LLM orders a small
// pre-filtered set by judgment-quality relevance. The model emits an
// ordinal ranking, not calibrated scores, so survivors get a synthetic
// score decreasing linearly from 1.0.
type PrecisionReranker struct {
	completer ai.Completer
	topN      int
	logger    *slog.Logger
}

var _ Reranker = (*PrecisionReranker)(nil)

// NewPrecisionReranker creates the precision rerank stage.
func NewPrecisionReranker(completer ai.Completer, topN int) *PrecisionReranker {
	return &PrecisionReranker{
		completer: completer,
		topN:      topN,
		logger:    slog.Default().With("component", "precision-reranker"),
	}
}

// Name implements Reranker.
func (r *PrecisionReranker) Name() string { return "precision" }

// Rerank prompts the LLM with a numbered passage list and reorders the
// candidates by the returned index array.
func (r *PrecisionReranker) Rerank(ctx context.Context, query string, candidates []*core.Candidate) RerankOutcome {
	if len(candidates) == 0 {
		return RerankOutcome{}
	}

	response, err := r.completer.Complete(ctx, precisionSystemPrompt, r.buildPrompt(query, candidates))
	if err != nil {
		return r.degrade(candidates, fmt.Sprintf("completion error: %v", err))
	}

	order, ok := extractIndexArray(response)
	if !ok {
		return r.degrade(candidates, "no parseable JSON array in response")
	}

	seen := make(map[int]bool, len(order))
	reranked := make([]*core.Candidate, 0, min(len(order), r.topN))
	for _, num := range order {
		// The prompt numbers passages from 1.
		idx := num - 1
		if idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true

		c := candidates[idx]
		c.OriginalScore = c.Score
		c.RerankScore = 1.0 - float64(len(reranked))/float64(len(order))
		c.Score = c.RerankScore
		reranked = append(reranked, c)
		if len(reranked) == r.topN {
			break
		}
	}

	if len(reranked) == 0 {
		return r.degrade(candidates, "no valid indices in ranking")
	}
	return RerankOutcome{Candidates: reranked}
}

func (r *PrecisionReranker) buildPrompt(query string, candidates []*core.Candidate) string {
	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\n\nPassages:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncateSnippet(c.Chunk.EmbeddingText, precisionSnippetLen))
	}
	return b.String()
}

func (r *PrecisionReranker) degrade(candidates []*core.Candidate, reason string) RerankOutcome {
	r.logger.Warn("precision rerank degraded to pass-through", "reason", reason)
	return RerankOutcome{
		Candidates: truncate(candidates, r.topN),
		Degraded:   true,
		Reason:     reason,
	}
}

// truncateSnippet cuts text to at most max bytes without splitting a
// UTF-8 sequence.
func truncateSnippet(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// extractIndexArray finds the first JSON integer array in the response,
// tolerating surrounding prose.
func extractIndexArray(response string) ([]int, bool) {
	match := jsonArrayPattern.FindString(response)
	if match == "" {
		return nil, false
	}
	var order []int
	if err := json.Unmarshal([]byte(match), &order); err != nil {
		return nil, false
	}
	if len(order) == 0 {
		return nil, false
	}
	return order, true
}

// truncate bounds a candidate list without copying.
func truncate(candidates []*core.Candidate, n int) []*core.Candidate {
	if n > 0 && len(candidates) > n {
		return candidates[:n]
	}
	return candidates
}
