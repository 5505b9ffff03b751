// Package cohere provides a relevance ranker backed by the Cohere
// rerank REST API, used as the broad first stage of the rerank cascade.
package cohere
