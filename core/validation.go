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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - EmbeddingText must not be empty
//   - DocumentType must be valid (act or judgment)
//
// NOT validated (populated by the ingestion pipeline):
//   - ID (empty is valid; a content-hash ID is assigned at ingestion)
//   - Embedding (empty until the embedding step runs)
//   - Year (0 is valid for acts and for judgments without a parsed year)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.EmbeddingText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyEmbeddingText)
	}

	if err := ValidateDocumentType(chunk.DocumentType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType has a known value.
func ValidateDocumentType(dt DocumentType) error {
	if dt != DocumentTypeAct && dt != DocumentTypeJudgment {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, dt)
	}
	return nil
}

// ValidateSearchQuery validates a SearchQuery according to domain rules.
//
// Validation rules:
//   - Query must not be empty
//   - TopK must be positive
//   - DocumentType, when set, must be valid
//   - YearFrom must not be after YearTo when both are set
func ValidateSearchQuery(query *SearchQuery) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidSearchQuery)
	}

	if query.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSearchQuery, ErrEmptyQueryText)
	}

	if query.TopK <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSearchQuery, ErrInvalidTopK)
	}

	if query.DocumentType != "" {
		if err := ValidateDocumentType(query.DocumentType); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSearchQuery, err)
		}
	}

	if query.YearFrom != 0 && query.YearTo != 0 && query.YearFrom > query.YearTo {
		return fmt.Errorf("%w: %w", ErrInvalidSearchQuery, ErrInvalidYearRange)
	}

	return nil
}
