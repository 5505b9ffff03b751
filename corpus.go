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

package legalassistant

import (
	"log/slog"

	"github.com/cvignesh/legal-assistant/ai"
	"github.com/cvignesh/legal-assistant/ai/openai"
	"github.com/cvignesh/legal-assistant/ingestion"
	"github.com/cvignesh/legal-assistant/retrieval"
	"github.com/cvignesh/legal-assistant/storage"
	"github.com/cvignesh/legal-assistant/storage/badger"
)

// Corpus bundles the chunk store and AI provider behind a single handle.
// It is the entry point for embedding, searching and maintaining a local
// legal document collection.
type Corpus struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	provider  ai.AIProvider
	ranker    ai.RelevanceRanker
	logger    *slog.Logger
}

// CorpusOption configures a Corpus.
type CorpusOption func(*corpusOptions)

type corpusOptions struct {
	aiConfig *ai.Config
	ranker   ai.RelevanceRanker
	inMemory bool
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) CorpusOption {
	return func(o *corpusOptions) {
		o.aiConfig = config
	}
}

// WithRelevanceRanker attaches a relevance ranking service used for the
// broad rerank stage of retrieval. Without one the stage is skipped.
func WithRelevanceRanker(ranker ai.RelevanceRanker) CorpusOption {
	return func(o *corpusOptions) {
		o.ranker = ranker
	}
}

// WithInMemoryStorage keeps all data in memory. Intended for tests.
func WithInMemoryStorage() CorpusOption {
	return func(o *corpusOptions) {
		o.inMemory = true
	}
}

// OpenCorpus opens (or creates) a corpus at the given path.
func OpenCorpus(filePath string, opts ...CorpusOption) (*Corpus, error) {
	options := &corpusOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Corpus{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		ranker:    options.ranker,
		logger:    slog.Default(),
	}, nil
}

func (c *Corpus) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	if err := c.chunkRepo.Close(); err != nil {
		c.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Corpus) ChunkRepository() storage.ChunkRepository {
	return c.chunkRepo
}

func (c *Corpus) Provider() ai.AIProvider {
	return c.provider
}

func (c *Corpus) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(c.chunkRepo, c.provider, opts...)
}

func (c *Corpus) NewRetrievalPipeline(opts ...retrieval.Option) (*retrieval.Pipeline, error) {
	if c.ranker != nil {
		opts = append([]retrieval.Option{retrieval.WithRelevanceRanker(c.ranker)}, opts...)
	}
	return retrieval.NewPipeline(c.chunkRepo, c.provider, opts...)
}
