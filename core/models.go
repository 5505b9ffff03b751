package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocumentType identifies the kind of legal text a chunk was cut from.
type DocumentType string

const (
	// DocumentTypeAct is a statute section (e.g. "BNS Section 318").
	DocumentTypeAct DocumentType = "act"
	// DocumentTypeJudgment is an excerpt from a court judgment.
	DocumentTypeJudgment DocumentType = "judgment"
)

// Source identifies which retrieval method produced a candidate.
type Source string

const (
	// SourceVector marks candidates found only by embedding similarity.
	SourceVector Source = "vector"
	// SourceKeyword marks candidates found only by lexical search.
	SourceKeyword Source = "keyword"
	// SourceHybrid marks candidates found by both retrieval methods.
	SourceHybrid Source = "hybrid"
)

// MetadataYearOfJudgment is the metadata key carrying the judgment year.
// Ingestion parses it into Chunk.Year so stores can range-filter on it.
const MetadataYearOfJudgment = "year_of_judgment"

// IDFromContent generates a deterministic chunk ID from text content using
// BLAKE2b hashing. Identical content always produces the same ID.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Chunk is an indexed unit of legal text. Chunks are created once by the
// ingestion pipeline and are immutable afterwards; retrieval only reads them.
type Chunk struct {
	ID              string            `json:"chunk_id"`
	EmbeddingText   string            `json:"text_for_embedding"`
	RawContent      string            `json:"raw_content,omitempty"`
	SupportingQuote string            `json:"supporting_quote,omitempty"`
	DocumentType    DocumentType      `json:"document_type"`
	Year            int               `json:"year,omitempty"` // year of judgment, 0 for acts
	Metadata        map[string]string `json:"metadata,omitempty"`
	Embedding       []float32         `json:"-"`
	CreatedAt       time.Time         `json:"-"`
}

// ScoredChunk is a chunk paired with a retrieval score.
// The score is method-specific and not comparable across retrieval methods.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// Candidate is a transient per-query wrapper around a chunk as it moves
// through the retrieval pipeline. Candidates never persist.
type Candidate struct {
	Chunk *Chunk

	// RawScore is the retriever's native score.
	RawScore float64
	// NormalizedScore is RawScore rescaled to [0,1] within one retriever's
	// result list.
	NormalizedScore float64
	// FusedScore is the weighted combination of normalized scores.
	FusedScore float64

	// Score is the working score at the current pipeline stage.
	Score float64
	// OriginalScore preserves the pre-rerank score once a reranker has
	// replaced Score.
	OriginalScore float64
	// RerankScore is the most recent reranker-assigned score.
	RerankScore float64

	Source Source
}

// Result projects the candidate into its externally visible form.
func (c *Candidate) Result() *SearchResult {
	return &SearchResult{
		ChunkID:       c.Chunk.ID,
		Score:         c.Score,
		EmbeddingText: c.Chunk.EmbeddingText,
		DocumentType:  c.Chunk.DocumentType,
		Metadata:      c.Chunk.Metadata,
		Source:        c.Source,
	}
}

// SearchQuery is the caller's input to one pipeline execution.
// It is immutable for the duration of the search.
type SearchQuery struct {
	Query string `json:"query"`
	// TopK is the desired number of final results.
	TopK int `json:"top_k"`
	// Filters are metadata equality filters (field -> required value).
	Filters map[string]string `json:"filters,omitempty"`
	// DocumentType restricts results to one document type when set.
	DocumentType DocumentType `json:"document_type,omitempty"`
	// YearFrom/YearTo bound the judgment year when non-zero.
	YearFrom int `json:"year_from,omitempty"`
	YearTo   int `json:"year_to,omitempty"`
}

// SearchResult is a single ranked result chunk.
type SearchResult struct {
	ChunkID       string            `json:"chunk_id"`
	Score         float64           `json:"score"`
	EmbeddingText string            `json:"text_for_embedding"`
	DocumentType  DocumentType      `json:"document_type"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Source        Source            `json:"source"`
}

// SearchResponse is the full result of one pipeline execution, including
// per-stage candidate counts for observability.
type SearchResponse struct {
	Query            string          `json:"query"`
	Results          []*SearchResult `json:"results"`
	TotalResults     int             `json:"total_results"`
	ProcessingTimeMS float64         `json:"processing_time_ms"`

	VectorCount      int `json:"vector_results_count"`
	KeywordCount     int `json:"keyword_results_count"`
	AfterDedupCount  int `json:"after_dedup_count"`
	AfterRerankCount int `json:"after_rerank_count"`

	// Degradations lists rerank stages that failed open during this search.
	Degradations []string `json:"degradations,omitempty"`
}
