package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cvignesh/legal-assistant/ai"
)

// Config holds Cohere rerank client configuration.
type Config struct {
	// BaseURL is the API base URL. Default: "https://api.cohere.com/v1"
	BaseURL string
	// APIKey authenticates requests. Required.
	APIKey string
	// Model is the rerank model identifier. Default: "rerank-english-v3.0"
	Model string
	// Timeout bounds each rerank call. Default: 30s
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for the hosted Cohere API.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://api.cohere.com/v1",
		Model:   "rerank-english-v3.0",
		Timeout: 30 * time.Second,
	}
}

// ErrAPIKeyRequired is returned when no API key is configured.
var ErrAPIKeyRequired = errors.New("cohere: API key required")

// Ranker implements ai.RelevanceRanker over the Cohere rerank REST API.
type Ranker struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// rerankRequest matches the Cohere v1/rerank request body.
type rerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n,omitempty"`
	ReturnDocuments bool     `json:"return_documents"`
}

// rerankResult is one scored entry in the response.
type rerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// rerankResponse matches the Cohere v1/rerank response body.
type rerankResponse struct {
	Results []rerankResult `json:"results"`
}

// NewRanker creates a relevance ranker backed by the Cohere rerank API.
// Missing config fields fall back to DefaultConfig values.
//
// Returns ai.RelevanceRanker interface to enforce abstraction.
func NewRanker(config *Config) (ai.RelevanceRanker, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	defaults := DefaultConfig()
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaults.BaseURL
	}
	model := config.Model
	if model == "" {
		model = defaults.Model
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaults.Timeout
	}

	return &Ranker{
		baseURL: baseURL,
		apiKey:  config.APIKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default().With("component", "cohere-ranker"),
	}, nil
}

// Rank scores the documents against the query in one batch call.
// Results come back ordered by descending relevance, at most topN entries,
// each carrying the index of the corresponding input document.
func (r *Ranker) Rank(ctx context.Context, query string, documents []string, topN int) ([]ai.RankedDocument, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	reqBody, err := json.Marshal(rerankRequest{
		Model:           r.model,
		Query:           query,
		Documents:       documents,
		TopN:            topN,
		ReturnDocuments: false,
	})
	if err != nil {
		return nil, fmt.Errorf("cohere: failed to marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/rerank", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("cohere: failed to create rerank request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cohere: rerank request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cohere: rerank returned status %d: %s", resp.StatusCode, string(body))
	}

	var result rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("cohere: failed to parse rerank response: %w", err)
	}

	ranked := make([]ai.RankedDocument, 0, len(result.Results))
	for _, item := range result.Results {
		if item.Index < 0 || item.Index >= len(documents) {
			r.logger.Warn("rerank returned out-of-range index", "index", item.Index, "documents", len(documents))
			continue
		}
		ranked = append(ranked, ai.RankedDocument{
			Index: item.Index,
			Score: item.RelevanceScore,
		})
	}

	r.logger.Debug("reranked documents", "submitted", len(documents), "returned", len(ranked))
	return ranked, nil
}
