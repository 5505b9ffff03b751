// Package reindex provides functionality for regenerating the embeddings of
// existing chunks with new or updated embedding models.
//
// This package supports batch processing of chunks, progress tracking, and
// retry logic with exponential backoff. Updating a chunk also rebuilds its
// keyword index entries, so a full run leaves both search indexes consistent.
package reindex
