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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyEmbeddingText indicates the EmbeddingText field is empty.
	ErrEmptyEmbeddingText = errors.New("embedding text cannot be empty")

	// ErrInvalidDocumentType indicates an unknown DocumentType value.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidSearchQuery indicates a SearchQuery failed validation.
	ErrInvalidSearchQuery = errors.New("invalid search query")

	// ErrEmptyQueryText indicates the Query field is empty.
	ErrEmptyQueryText = errors.New("query text cannot be empty")

	// ErrInvalidTopK indicates TopK is zero or negative.
	ErrInvalidTopK = errors.New("top_k must be positive")

	// ErrInvalidYearRange indicates YearFrom is after YearTo.
	ErrInvalidYearRange = errors.New("year_from cannot be after year_to")
)
