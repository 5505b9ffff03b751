package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/cvignesh/legal-assistant/core"
	"github.com/cvignesh/legal-assistant/storage"
)

func newTestRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestChunkBasics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := &core.Chunk{
		EmbeddingText: "Section 138 dishonour of cheque for insufficiency of funds",
		RawContent:    "Where any cheque drawn by a person on an account maintained by him...",
		DocumentType:  core.DocumentTypeAct,
		Embedding:     []float32{1, 0, 0},
	}

	added, err := repo.AddChunks(ctx, chunk)
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(added))
	}
	if added[0].ID == "" {
		t.Fatal("Expected content-derived ID, got empty string")
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := repo.GetChunk(ctx, added[0].ID)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if retrieved.EmbeddingText != chunk.EmbeddingText {
		t.Fatalf("Expected %q, got %q", chunk.EmbeddingText, retrieved.EmbeddingText)
	}

	count, err := repo.CountChunks(ctx)
	if err != nil {
		t.Fatalf("Failed to count chunks: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 chunk, got %d", count)
	}
}

func TestChunkContentDerivedIDIsStable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	text := "limitation period for recovery of debt"
	first := &core.Chunk{EmbeddingText: text, DocumentType: core.DocumentTypeAct}
	second := &core.Chunk{EmbeddingText: text, DocumentType: core.DocumentTypeAct}

	if _, err := repo.AddChunks(ctx, first, second); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("Expected identical IDs for identical content, got %q and %q", first.ID, second.ID)
	}

	count, err := repo.CountChunks(ctx)
	if err != nil {
		t.Fatalf("Failed to count chunks: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected duplicate content to collapse to 1 chunk, got %d", count)
	}
}

func TestChunkNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetChunk(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteChunks(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on delete, got %v", err)
	}
	if _, err := repo.UpdateChunks(ctx, &core.Chunk{ID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on update, got %v", err)
	}
}

func TestChunkDeleteRemovesFromKeywordIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := &core.Chunk{
		EmbeddingText: "anticipatory bail under section 438",
		DocumentType:  core.DocumentTypeJudgment,
		Year:          2021,
	}
	if _, err := repo.AddChunks(ctx, chunk); err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	results, err := repo.KeywordSearch(ctx, "anticipatory bail", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result before delete, got %d", len(results))
	}

	if err := repo.DeleteChunks(ctx, chunk.ID); err != nil {
		t.Fatalf("Failed to delete chunk: %v", err)
	}

	results, err = repo.KeywordSearch(ctx, "anticipatory bail", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected 0 results after delete, got %d", len(results))
	}
}

func TestVectorSearch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		{ID: "c1", EmbeddingText: "cheque dishonour", DocumentType: core.DocumentTypeAct, Embedding: []float32{1, 0, 0}},
		{ID: "c2", EmbeddingText: "bail provisions", DocumentType: core.DocumentTypeAct, Embedding: []float32{0.9, 0.1, 0}},
		{ID: "c3", EmbeddingText: "property transfer", DocumentType: core.DocumentTypeAct, Embedding: []float32{0, 1, 0}},
	}
	if _, err := repo.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	results, err := repo.VectorSearch(ctx, []float32{1, 0, 0}, 10, 100, 0.5, nil)
	if err != nil {
		t.Fatalf("Vector search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results above threshold, got %d", len(results))
	}
	if results[0].Chunk.ID != "c1" {
		t.Fatalf("Expected c1 first, got %s", results[0].Chunk.ID)
	}
	if results[0].Score < results[1].Score {
		t.Fatal("Expected descending score order")
	}
}

func TestVectorSearchFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		{ID: "act1", DocumentType: core.DocumentTypeAct, EmbeddingText: "a", Embedding: []float32{1, 0}},
		{ID: "judg1", DocumentType: core.DocumentTypeJudgment, Year: 2010, EmbeddingText: "b", Embedding: []float32{1, 0}},
		{ID: "judg2", DocumentType: core.DocumentTypeJudgment, Year: 2020, EmbeddingText: "c", Embedding: []float32{1, 0}},
	}
	if _, err := repo.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	filter := &storage.Filter{DocumentType: core.DocumentTypeJudgment, YearFrom: 2015}
	results, err := repo.VectorSearch(ctx, []float32{1, 0}, 10, 100, 0, filter)
	if err != nil {
		t.Fatalf("Vector search failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "judg2" {
		t.Fatalf("Expected only judg2, got %d results", len(results))
	}
}

func TestVectorSearchCandidatePool(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		{ID: "c1", EmbeddingText: "a", DocumentType: core.DocumentTypeAct, Embedding: []float32{1, 0}},
		{ID: "c2", EmbeddingText: "b", DocumentType: core.DocumentTypeAct, Embedding: []float32{0.95, 0.05}},
		{ID: "c3", EmbeddingText: "c", DocumentType: core.DocumentTypeAct, Embedding: []float32{0.9, 0.1}},
	}
	if _, err := repo.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	// Pool of 2 candidates cuts c3 before the threshold applies.
	results, err := repo.VectorSearch(ctx, []float32{1, 0}, 10, 2, 0, nil)
	if err != nil {
		t.Fatalf("Vector search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected candidate pool of 2, got %d", len(results))
	}
}

func TestKeywordSearch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		{
			ID:            "c1",
			EmbeddingText: "Section 138 dishonour of cheque insufficiency of funds",
			DocumentType:  core.DocumentTypeAct,
		},
		{
			ID:              "c2",
			EmbeddingText:   "appeal against conviction for cheque dishonour allowed",
			SupportingQuote: "the cheque was returned unpaid",
			DocumentType:    core.DocumentTypeJudgment,
			Year:            2018,
		},
		{
			ID:            "c3",
			EmbeddingText: "transfer of immovable property by sale deed",
			DocumentType:  core.DocumentTypeAct,
		},
	}
	if _, err := repo.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	results, err := repo.KeywordSearch(ctx, "cheque dishonour", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, sc := range results {
		if sc.Chunk.ID == "c3" {
			t.Fatal("c3 should not match a cheque query")
		}
		if sc.Score <= 0 {
			t.Fatalf("Expected positive score, got %v", sc.Score)
		}
	}

	// Supporting quote text is indexed too.
	results, err = repo.KeywordSearch(ctx, "returned unpaid", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "c2" {
		t.Fatalf("Expected only c2 for quote match, got %d results", len(results))
	}
}

func TestKeywordSearchStopWordsOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AddChunks(ctx, &core.Chunk{ID: "c1", EmbeddingText: "some text", DocumentType: core.DocumentTypeAct}); err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	results, err := repo.KeywordSearch(ctx, "the of and", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected no results for stop-word query, got %d", len(results))
	}
}

func TestUpdateChunkReindexes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := &core.Chunk{ID: "c1", EmbeddingText: "original wording about bail", DocumentType: core.DocumentTypeAct}
	if _, err := repo.AddChunks(ctx, chunk); err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	chunk.EmbeddingText = "revised wording about sentencing"
	if _, err := repo.UpdateChunks(ctx, chunk); err != nil {
		t.Fatalf("Failed to update chunk: %v", err)
	}

	results, err := repo.KeywordSearch(ctx, "bail", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatal("Expected stale token to be removed from index")
	}

	results, err = repo.KeywordSearch(ctx, "sentencing", 10, 0, nil)
	if err != nil {
		t.Fatalf("Keyword search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected new token to be indexed, got %d results", len(results))
	}
}

func TestForEachChunk(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		{ID: "c1", EmbeddingText: "one", DocumentType: core.DocumentTypeAct},
		{ID: "c2", EmbeddingText: "two", DocumentType: core.DocumentTypeAct},
	}
	if _, err := repo.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	visited := make(map[string]bool)
	err := repo.ForEachChunk(ctx, func(chunk *core.Chunk) error {
		visited[chunk.ID] = true
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachChunk failed: %v", err)
	}
	if !visited["c1"] || !visited["c2"] {
		t.Fatalf("Expected both chunks visited, got %v", visited)
	}

	stop := errors.New("stop")
	calls := 0
	err = repo.ForEachChunk(ctx, func(chunk *core.Chunk) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Expected iteration error propagated, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("Expected iteration to stop after first error, got %d calls", calls)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
