// Package storage defines the persistence contracts for the legal corpus.
//
// The central interface is ChunkRepository, which combines chunk CRUD with
// the two first-stage search operations the retrieval pipeline depends on:
// VectorSearch (embedding similarity) and KeywordSearch (lexical match over
// the indexed text fields). Filter expresses the metadata, document-type,
// and year constraints both searches honor.
//
// Backends live in subpackages; storage/badger provides the Badger-backed
// implementation. Chunks are serialized with the MUS format via
// MarshalChunk/UnmarshalChunk.
//
// All implementations must be safe for concurrent use: the pipeline runs
// vector and keyword retrieval in parallel against the same repository.
package storage
