package reindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvignesh/legal-assistant/ai/mock"
)

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo := newTestRepo(t)
	embedder := mock.NewMockEmbedder()

	processor := NewBatchProcessor(repo, embedder, 3, 10*time.Millisecond)
	err := processor.Process(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, embedder.CallCount(), "no embedding call for empty batch")
}

func TestBatchProcessor_AssignsEmbeddings(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 3)

	chunks, err := repo.GetChunks(context.Background(), "chunk-000", "chunk-001", "chunk-002")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	embedder := mock.NewMockEmbedder()
	processor := NewBatchProcessor(repo, embedder, 3, 10*time.Millisecond)

	err = processor.Process(context.Background(), chunks)
	require.NoError(t, err)

	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Embedding, "chunk %s should have an embedding", chunk.ID)
	}

	// Embeddings must be persisted, not just assigned in memory.
	stored, err := repo.GetChunk(context.Background(), "chunk-001")
	require.NoError(t, err)
	assert.Equal(t, chunks[1].Embedding, stored.Embedding)
}

func TestBatchProcessor_RetriesTransientFailures(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 2)

	chunks, err := repo.GetChunks(context.Background(), "chunk-000", "chunk-001")
	require.NoError(t, err)

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("rate limited")
		}
		embeddings := make([][]float32, len(texts))
		for i := range texts {
			embeddings[i] = []float32{1, 0, 0}
		}
		return embeddings, nil
	}

	processor := NewBatchProcessor(repo, embedder, 5, time.Millisecond)
	err = processor.Process(context.Background(), chunks)

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "should succeed on third attempt")
}

func TestBatchProcessor_ExhaustedRetries(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 1)

	chunks, err := repo.GetChunks(context.Background(), "chunk-000")
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("service down")
	}

	processor := NewBatchProcessor(repo, embedder, 2, time.Millisecond)
	err = processor.Process(context.Background(), chunks)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 2)

	chunks, err := repo.GetChunks(context.Background(), "chunk-000", "chunk-001")
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	err = processor.Process(context.Background(), chunks)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}
