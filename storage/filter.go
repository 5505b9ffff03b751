package storage

import "github.com/cvignesh/legal-assistant/core"

// Filter restricts which chunks a search may return. A nil *Filter
// matches every chunk. Zero-valued fields are ignored.
type Filter struct {
	// DocumentType restricts to a single document type when non-empty.
	DocumentType core.DocumentType

	// YearFrom/YearTo bound Chunk.Year inclusively when non-zero.
	// Chunks without a year (Year == 0) fail any year bound.
	YearFrom int
	YearTo   int

	// Fields are metadata equality constraints (key -> required value).
	Fields map[string]string
}

// FilterFromQuery builds the storage filter implied by a search query.
func FilterFromQuery(query *core.SearchQuery) *Filter {
	if query == nil {
		return nil
	}
	if query.DocumentType == "" && query.YearFrom == 0 && query.YearTo == 0 && len(query.Filters) == 0 {
		return nil
	}
	return &Filter{
		DocumentType: query.DocumentType,
		YearFrom:     query.YearFrom,
		YearTo:       query.YearTo,
		Fields:       query.Filters,
	}
}

// Matches reports whether the chunk satisfies every constraint.
func (f *Filter) Matches(chunk *core.Chunk) bool {
	if f == nil {
		return true
	}
	if chunk == nil {
		return false
	}
	if f.DocumentType != "" && chunk.DocumentType != f.DocumentType {
		return false
	}
	if f.YearFrom != 0 && chunk.Year < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && (chunk.Year == 0 || chunk.Year > f.YearTo) {
		return false
	}
	for key, want := range f.Fields {
		if chunk.Metadata[key] != want {
			return false
		}
	}
	return true
}
