package storage

import (
	"testing"
	"time"

	"github.com/cvignesh/legal-assistant/core"
)

func TestMarshalUnmarshalChunk(t *testing.T) {
	original := &core.Chunk{
		ID:              core.IDFromContent("Section 138 dishonour of cheque"),
		EmbeddingText:   "Section 138 dishonour of cheque for insufficiency of funds",
		RawContent:      "Where any cheque drawn by a person is returned by the bank unpaid...",
		SupportingQuote: "returned by the bank unpaid",
		DocumentType:    core.DocumentTypeAct,
		Metadata: map[string]string{
			"act_name": "Negotiable Instruments Act",
			"section":  "138",
		},
		Embedding: []float32{0.1, -0.25, 0.93, 0.0},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	data := MarshalChunk(original)
	restored, err := UnmarshalChunk(data)
	if err != nil {
		t.Fatalf("UnmarshalChunk failed: %v", err)
	}

	if restored.ID != original.ID {
		t.Errorf("ID mismatch: got %q, want %q", restored.ID, original.ID)
	}
	if restored.EmbeddingText != original.EmbeddingText {
		t.Errorf("EmbeddingText mismatch: got %q, want %q", restored.EmbeddingText, original.EmbeddingText)
	}
	if restored.RawContent != original.RawContent {
		t.Errorf("RawContent mismatch")
	}
	if restored.SupportingQuote != original.SupportingQuote {
		t.Errorf("SupportingQuote mismatch")
	}
	if restored.DocumentType != original.DocumentType {
		t.Errorf("DocumentType mismatch: got %q, want %q", restored.DocumentType, original.DocumentType)
	}
	if len(restored.Metadata) != len(original.Metadata) {
		t.Fatalf("Metadata length mismatch: got %d, want %d", len(restored.Metadata), len(original.Metadata))
	}
	for k, v := range original.Metadata {
		if restored.Metadata[k] != v {
			t.Errorf("Metadata[%q] mismatch: got %q, want %q", k, restored.Metadata[k], v)
		}
	}
	if len(restored.Embedding) != len(original.Embedding) {
		t.Fatalf("Embedding length mismatch: got %d, want %d", len(restored.Embedding), len(original.Embedding))
	}
	for i, v := range original.Embedding {
		if restored.Embedding[i] != v {
			t.Errorf("Embedding[%d] mismatch: got %v, want %v", i, restored.Embedding[i], v)
		}
	}
	if !restored.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", restored.CreatedAt, original.CreatedAt)
	}
}

func TestMarshalUnmarshalChunk_JudgmentWithYear(t *testing.T) {
	original := &core.Chunk{
		ID:            "a1b2c3d4e5f60718",
		EmbeddingText: "appeal against conviction under section 138 allowed",
		DocumentType:  core.DocumentTypeJudgment,
		Year:          2019,
		Metadata: map[string]string{
			core.MetadataYearOfJudgment: "2019",
			"court":                     "Supreme Court",
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	restored, err := UnmarshalChunk(MarshalChunk(original))
	if err != nil {
		t.Fatalf("UnmarshalChunk failed: %v", err)
	}
	if restored.Year != 2019 {
		t.Errorf("Year mismatch: got %d, want 2019", restored.Year)
	}
	if restored.RawContent != "" || restored.SupportingQuote != "" {
		t.Errorf("expected empty optional fields, got %q / %q", restored.RawContent, restored.SupportingQuote)
	}
	if restored.Embedding != nil {
		t.Errorf("expected nil embedding, got %v", restored.Embedding)
	}
}

func TestUnmarshalChunk_TruncatedData(t *testing.T) {
	chunk := &core.Chunk{
		ID:            "deadbeefcafe0123",
		EmbeddingText: "limitation period for filing a suit",
		DocumentType:  core.DocumentTypeAct,
		Embedding:     []float32{0.5, 0.5},
		CreatedAt:     time.Now().UTC(),
	}
	data := MarshalChunk(chunk)

	if _, err := UnmarshalChunk(data[:len(data)/2]); err == nil {
		t.Error("expected error for truncated data, got nil")
	}
}

func TestFilterMatches(t *testing.T) {
	judgment := &core.Chunk{
		ID:           "j1",
		DocumentType: core.DocumentTypeJudgment,
		Year:         2015,
		Metadata:     map[string]string{"court": "High Court"},
	}
	act := &core.Chunk{
		ID:           "a1",
		DocumentType: core.DocumentTypeAct,
		Metadata:     map[string]string{"act_name": "Limitation Act"},
	}

	tests := []struct {
		name   string
		filter *Filter
		chunk  *core.Chunk
		want   bool
	}{
		{"nil filter matches all", nil, act, true},
		{"document type match", &Filter{DocumentType: core.DocumentTypeJudgment}, judgment, true},
		{"document type mismatch", &Filter{DocumentType: core.DocumentTypeAct}, judgment, false},
		{"year within range", &Filter{YearFrom: 2010, YearTo: 2020}, judgment, true},
		{"year below range", &Filter{YearFrom: 2016}, judgment, false},
		{"year above range", &Filter{YearTo: 2014}, judgment, false},
		{"act fails year bound", &Filter{YearTo: 2020}, act, false},
		{"metadata field match", &Filter{Fields: map[string]string{"court": "High Court"}}, judgment, true},
		{"metadata field mismatch", &Filter{Fields: map[string]string{"court": "Supreme Court"}}, judgment, false},
		{"missing metadata field", &Filter{Fields: map[string]string{"bench": "division"}}, judgment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.chunk); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterFromQuery(t *testing.T) {
	if f := FilterFromQuery(&core.SearchQuery{Query: "anything", TopK: 5}); f != nil {
		t.Errorf("expected nil filter for unconstrained query, got %+v", f)
	}

	query := &core.SearchQuery{
		Query:        "cheque bounce",
		DocumentType: core.DocumentTypeJudgment,
		YearFrom:     2000,
		Filters:      map[string]string{"court": "Supreme Court"},
	}
	f := FilterFromQuery(query)
	if f == nil {
		t.Fatal("expected non-nil filter")
	}
	if f.DocumentType != core.DocumentTypeJudgment || f.YearFrom != 2000 || f.Fields["court"] != "Supreme Court" {
		t.Errorf("filter fields not carried over: %+v", f)
	}
}
