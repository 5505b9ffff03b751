package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/cvignesh/legal-assistant/ai"
	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/storage"
)

const defaultBatchSize = 32

// Pipeline loads pre-segmented legal text chunks into the corpus:
// validate, assign content-hash IDs and judgment years, embed in
// concurrent batches, persist. Document parsing and segmentation happen
// upstream; this pipeline only accepts already-cut chunk records.
type Pipeline struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per provider call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

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

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.ChunkRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default().With("component", "ingestion"),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest validates, embeds, and persists the chunks. Chunks arriving
// without an ID get a content-hash ID; judgment chunks without a typed
// year get it parsed from metadata. Embedding failures are fatal for the
// whole call: a broken embedding contract cannot be papered over.
func (p *Pipeline) Ingest(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
		if chunk.ID == "" {
			chunk.ID = core.IDFromContent(chunk.EmbeddingText)
		}
		p.applyYear(chunk)
	}

	if err := p.embedAll(ctx, chunks); err != nil {
		return nil, err
	}

	added, err := p.repository.AddChunks(ctx, chunks...)
	if err != nil {
		return nil, fmt.Errorf("failed to persist chunks: %w", err)
	}

	p.logger.Info("ingested chunks", "count", len(added))
	return added, nil
}

// embedAll embeds the chunks in concurrent batches on the worker pool.
func (p *Pipeline) embedAll(ctx context.Context, chunks []*core.Chunk) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			// In-flight batches still hold slices into chunks; wait
			// them out before handing the caller an error.
			wg.Wait()
			return submitErr
		}
	}

	wg.Wait()
	return firstErr
}

// embedBatch embeds one batch and assigns the vectors in place.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.EmbeddingText
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed batch: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(batch), len(embeddings))
	}

	for i := range embeddings {
		batch[i].Embedding = embeddings[i]
	}
	return nil
}

// applyYear parses the judgment year out of chunk metadata when the
// typed field is unset, so stores can range-filter on it.
func (p *Pipeline) applyYear(chunk *core.Chunk) {
	if chunk.Year != 0 || chunk.Metadata == nil {
		return
	}
	raw, ok := chunk.Metadata[core.MetadataYearOfJudgment]
	if !ok {
		return
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		p.logger.Warn("unparseable judgment year in metadata", "chunk", chunk.ID, "value", raw)
		return
	}
	chunk.Year = year
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
