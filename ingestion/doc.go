// Package ingestion loads pre-segmented legal text chunks into the corpus.
//
// The Pipeline type manages the loading workflow for chunk records:
//   - Validating each chunk against domain rules
//   - Assigning content-hash IDs and typed judgment years
//   - Generating embeddings in concurrent batches on a worker pool
//   - Persisting chunks and their keyword index entries
//
// Embedding is performed synchronously from the caller's perspective but
// batches run concurrently on the pool. An embedding failure fails the
// whole Ingest call: retrieval cannot work with partially embedded data.
package ingestion
