package reindex

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/storage"
	"github.com/cvignesh/legal-assistant/storage/badger"
)

func newTestRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		backend.Close()
	})
	return repo
}

func seedChunks(t *testing.T, repo storage.ChunkRepository, n int) {
	t.Helper()

	chunks := make([]*core.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = &core.Chunk{
			ID:            fmt.Sprintf("chunk-%03d", i),
			EmbeddingText: fmt.Sprintf("Section %d of the contract act deals with consideration", i),
			DocumentType:  core.DocumentTypeAct,
		}
	}
	_, err := repo.AddChunks(context.Background(), chunks...)
	require.NoError(t, err)
}

func TestChunkIterator_EmptyCorpus(t *testing.T) {
	repo := newTestRepo(t)
	iterator := NewChunkIterator(repo, 10)

	batches := 0
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batches++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0, batches, "empty corpus should produce no batches")
}

func TestChunkIterator_PartialFinalBatch(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 25)

	iterator := NewChunkIterator(repo, 10)

	var batchSizes []int
	total := 0
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batchSizes = append(batchSizes, len(chunks))
		total += len(chunks)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 5}, batchSizes)
	assert.Equal(t, 25, total)
}

func TestChunkIterator_ExactMultiple(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 20)

	iterator := NewChunkIterator(repo, 10)

	var batchSizes []int
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batchSizes = append(batchSizes, len(chunks))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 10}, batchSizes, "no empty trailing batch")
}

func TestChunkIterator_CoversAllChunks(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 7)

	iterator := NewChunkIterator(repo, 3)

	seen := make(map[string]bool)
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		for _, chunk := range chunks {
			seen[chunk.ID] = true
		}
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, seen, 7, "every chunk should appear exactly once")
}

func TestChunkIterator_CallbackErrorStopsIteration(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, 30)

	iterator := NewChunkIterator(repo, 10)

	batches := 0
	expectedErr := errors.New("batch failed")
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batches++
		if batches == 2 {
			return expectedErr
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 2, batches, "iteration should stop after the failing batch")
}
