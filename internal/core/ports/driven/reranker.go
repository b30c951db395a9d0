package driven

import "context"

// Reranker rescores fused candidates against the query with a pairwise
// cross-encoder model. This is an optional service - when nil or
// failing, retrieval keeps the fused composite ordering.
type Reranker interface {
	// Rerank returns one relevance score per passage, in input order.
	Rerank(ctx context.Context, query string, passages []string) ([]float64, error)

	// ModelName returns the cross-encoder model identifier.
	ModelName() string
}
