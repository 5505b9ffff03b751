package badger

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"

	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is closed separately.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks adds one or more chunks to storage and indexes their text.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if chunk.ID == "" {
				chunk.ID = core.IDFromContent(chunk.EmbeddingText)
			}
			if chunk.CreatedAt.IsZero() {
				chunk.CreatedAt = time.Now().UTC()
			}

			if err := tx.Set(makeChunkKey(chunk.ID), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if err := writePostings(tx, chunk); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// UpdateChunks replaces existing chunks and reindexes their text.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.ID)

			old, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := deletePostings(tx, old); err != nil {
				return err
			}
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if err := writePostings(tx, chunk); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// DeleteChunks removes chunks and their keyword index entries.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeChunkKey(id)

			old, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := deletePostings(tx, old); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id string) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		chunk, err = readChunk(tx, makeChunkKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, storage.ErrNotFound
	}
	return chunk, nil
}

// GetChunks retrieves multiple chunks, skipping missing IDs.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...string) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// CountChunks returns the number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkScanPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// ForEachChunk iterates over all stored chunks in key order.
func (r *ChunkRepository) ForEachChunk(ctx context.Context, fn func(chunk *core.Chunk) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(chunk); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// VectorSearch finds chunks by cosine similarity over a full scan.
// The numCandidates pool is cut before the minScore threshold applies,
// mirroring how approximate vector indexes bound their search.
func (r *ChunkRepository) VectorSearch(ctx context.Context, vector []float32, limit, numCandidates int, minScore float64, filter *storage.Filter) ([]*core.ScoredChunk, error) {
	var pool []*core.ScoredChunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}

			if len(chunk.Embedding) == 0 || !filter.Matches(chunk) {
				continue
			}

			pool = append(pool, &core.ScoredChunk{
				Chunk: chunk,
				Score: cosineSimilarity(vector, chunk.Embedding),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sortScoredDesc(pool)

	if numCandidates > 0 && len(pool) > numCandidates {
		pool = pool[:numCandidates]
	}

	results := pool[:0]
	for _, sc := range pool {
		if sc.Score >= minScore {
			results = append(results, sc)
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// KeywordSearch scores chunks by term-frequency matches against the query
// tokens, damped by how common each token is across the corpus.
func (r *ChunkRepository) KeywordSearch(ctx context.Context, query string, limit int, minScore float64, filter *storage.Filter) ([]*core.ScoredChunk, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	// Deduplicate query tokens so repeated words don't double-count.
	seen := make(map[string]bool, len(tokens))
	unique := tokens[:0]
	for _, token := range tokens {
		if !seen[token] {
			seen[token] = true
			unique = append(unique, token)
		}
	}

	var results []*core.ScoredChunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		scores := make(map[string]float64)

		for _, token := range unique {
			postings, err := readPostings(tx, token)
			if err != nil {
				return err
			}
			if len(postings) == 0 {
				continue
			}

			// Common tokens contribute less per occurrence.
			idf := 1.0 / (1.0 + math.Log(1.0+float64(len(postings))))
			for chunkID, tf := range postings {
				scores[chunkID] += float64(tf) * idf
			}
		}

		for chunkID, score := range scores {
			if score < minScore {
				continue
			}
			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk == nil || !filter.Matches(chunk) {
				continue
			}
			results = append(results, &core.ScoredChunk{Chunk: chunk, Score: score})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sortScoredDesc(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// readChunk reads and unmarshals a chunk, returning nil if absent.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}

// writePostings indexes all searchable text fields of a chunk.
func writePostings(tx *badger.Txn, chunk *core.Chunk) error {
	for token, tf := range tokenCounts(chunk.EmbeddingText, chunk.RawContent, chunk.SupportingQuote) {
		buf := make([]byte, varint.Int.Size(tf))
		varint.Int.Marshal(tf, buf)
		if err := tx.Set(makeTokenKey(token, chunk.ID), buf); err != nil {
			return err
		}
	}
	return nil
}

// deletePostings removes a chunk's keyword index entries.
func deletePostings(tx *badger.Txn, chunk *core.Chunk) error {
	for token := range tokenCounts(chunk.EmbeddingText, chunk.RawContent, chunk.SupportingQuote) {
		if err := tx.Delete(makeTokenKey(token, chunk.ID)); err != nil {
			return err
		}
	}
	return nil
}

// readPostings collects the (chunkID, term frequency) postings of a token.
func readPostings(tx *badger.Txn, token string) (map[string]int, error) {
	postings := make(map[string]int)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeTokenScanPrefix(token)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		chunkID := chunkIDFromTokenKey(item.Key())
		if chunkID == "" {
			continue
		}

		err := item.Value(func(val []byte) error {
			tf, _, err := varint.Int.Unmarshal(val)
			if err != nil {
				return err
			}
			postings[chunkID] = tf
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return postings, nil
}

// sortScoredDesc orders by score descending, breaking ties by chunk ID
// so results are deterministic.
func sortScoredDesc(scored []*core.ScoredChunk) {
	slices.SortFunc(scored, func(a, b *core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.Chunk.ID, b.Chunk.ID)
	})
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched lengths or zero-magnitude vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
