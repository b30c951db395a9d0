package driven

import (
	"context"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// VectorIndex provides semantic similarity search over the chunked
// corpus. Backed by an embedded vector database; the adapter owns the
// embedding function so chunks and queries are embedded identically.
type VectorIndex interface {
	// Add inserts chunks into the collection for the given generation.
	Add(ctx context.Context, fingerprint string, chunks []domain.Chunk) error

	// Search finds the k most similar chunks to the query text.
	Search(ctx context.Context, fingerprint string, query string, k int) ([]VectorHit, error)

	// Has reports whether a collection exists for the given generation.
	Has(ctx context.Context, fingerprint string) bool

	// Drop removes every collection except the given generation's.
	// Called after a rebuild to reclaim stale generations.
	Drop(ctx context.Context, keepFingerprint string) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk ordinal.
	ChunkID int

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
