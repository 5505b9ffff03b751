// Copyright 2026 The Legal Assistant Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	legalassistant "github.com/cvignesh/legal-assistant"
	"github.com/cvignesh/legal-assistant/ai"
	"github.com/cvignesh/legal-assistant/ai/cohere"
	"github.com/cvignesh/legal-assistant/ai/openai"
	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/reindex"
	"github.com/cvignesh/legal-assistant/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "legalassistant",
		Usage: "Hybrid search over Indian statutes and judgments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the corpus with hybrid vector and keyword retrieval",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "mistral-embed",
					},
					&cli.StringFlag{
						Name:  "completion-model",
						Usage: "Completion model name for the precision rerank stage",
						Value: "llama-3.3-70b-versatile",
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API token for the AI services",
						EnvVars: []string{"LEGALASSIST_AI_TOKEN"},
					},
					&cli.StringFlag{
						Name:    "cohere-api-key",
						Usage:   "Cohere API key enabling the broad rerank stage",
						EnvVars: []string{"COHERE_API_KEY"},
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "document-type",
						Usage: "Restrict results to one document type (act, judgment)",
					},
					&cli.IntFlag{
						Name:  "year-from",
						Usage: "Earliest judgment year to include",
					},
					&cli.IntFlag{
						Name:  "year-to",
						Usage: "Latest judgment year to include",
					},
					&cli.StringSliceFlag{
						Name:  "filter",
						Usage: "Metadata equality filter as key=value (repeatable)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Regenerate embeddings for every chunk in the corpus",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API token for the embedding service",
						EnvVars: []string{"LEGALASSIST_AI_TOKEN"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("a search query is required")
	}

	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionModel(c.String("completion-model")),
	)
	if token := c.String("token"); token != "" {
		ai.WithToken(token)(aiConfig)
	}
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []legalassistant.CorpusOption{legalassistant.WithAIConfig(aiConfig)}
	if apiKey := c.String("cohere-api-key"); apiKey != "" {
		rankerConfig := cohere.DefaultConfig()
		rankerConfig.APIKey = apiKey
		ranker, err := cohere.NewRanker(rankerConfig)
		if err != nil {
			return fmt.Errorf("failed to create relevance ranker: %w", err)
		}
		opts = append(opts, legalassistant.WithRelevanceRanker(ranker))
	}

	corpus, err := legalassistant.OpenCorpus(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer corpus.Close()

	pipeline, err := corpus.NewRetrievalPipeline()
	if err != nil {
		return fmt.Errorf("failed to create retrieval pipeline: %w", err)
	}

	query := &core.SearchQuery{
		Query:        queryText,
		TopK:         c.Int("top-k"),
		Filters:      filters,
		DocumentType: core.DocumentType(c.String("document-type")),
		YearFrom:     c.Int("year-from"),
		YearTo:       c.Int("year-to"),
	}

	response, err := pipeline.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResponse(response)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("corpus path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if token := c.String("token"); token != "" {
		ai.WithToken(token)(aiConfig)
	}
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := reindex.NewReindexer(repo, embedder, reindexConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Corpus: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	return nil
}

// parseFilters parses repeated key=value flags into a metadata filter map.
func parseFilters(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make(map[string]string, len(raw))
	for _, pair := range raw {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}

func printResponse(response *core.SearchResponse) {
	fmt.Printf("Found %d results in %.1fms\n", response.TotalResults, response.ProcessingTimeMS)
	fmt.Printf("Stages: vector=%d keyword=%d after-dedup=%d after-rerank=%d\n",
		response.VectorCount, response.KeywordCount,
		response.AfterDedupCount, response.AfterRerankCount)
	if len(response.Degradations) > 0 {
		fmt.Printf("Degraded stages: %s\n", strings.Join(response.Degradations, ", "))
	}
	fmt.Println()

	for i, result := range response.Results {
		fmt.Printf("%d. [%.3f] (%s/%s) %s\n", i+1, result.Score, result.DocumentType, result.Source, result.ChunkID)
		fmt.Printf("   %s\n", result.EmbeddingText)
		if section, ok := result.Metadata["section"]; ok {
			fmt.Printf("   section: %s\n", section)
		}
		if caseName, ok := result.Metadata["case_name"]; ok {
			fmt.Printf("   case: %s\n", caseName)
		}
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
