// Package retrieval implements the hybrid retrieval and ranking pipeline.
//
// A query flows through six stages:
//
//  1. VectorRetriever and KeywordRetriever run concurrently against the
//     chunk store, each returning method-scored candidates.
//  2. Each result list is min-max normalized independently, then fused
//     additively under fixed weights. Chunks found by both methods are
//     labeled hybrid and accumulate both weighted scores.
//  3. A fused-score gate drops candidates below the hybrid threshold.
//  4. The Deduplicator collapses exact and near-duplicate chunks using
//     the configured strategy.
//  5. The rerank cascade narrows the set: the broad stage scores all
//     candidates in one batch call to a relevance service, then the
//     precision stage asks an LLM for an ordinal ranking of the
//     survivors. Both stages fail open, passing their input through
//     truncated when the backing service misbehaves.
//  6. A final gate keeps only results at or above the hybrid threshold
//     and above a small epsilon, then truncates to the caller's top-k.
//
// Retrieval-stage failures (embedding, store) are fatal to the query;
// rerank-stage failures degrade and are reported via
// SearchResponse.Degradations and the SearchMonitor hooks.
package retrieval
