package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// Generation is a persisted index generation: the chunk sequence plus
// the fingerprint it was built from. Chunk IDs are only meaningful
// within their generation.
type Generation struct {
	// Fingerprint identifies the corpus + chunking config state.
	Fingerprint string

	// BuiltAt is when the generation was persisted.
	BuiltAt time.Time

	// Chunks is the ordered chunk sequence.
	Chunks []domain.Chunk
}

// IndexStore persists index generations and caches retrieval results.
// Backed by SQLite.
type IndexStore interface {
	// SaveGeneration atomically replaces the stored generation.
	SaveGeneration(ctx context.Context, gen Generation) error

	// LoadGeneration retrieves the stored generation if its
	// fingerprint matches. Returns domain.ErrFingerprintMismatch on a
	// stale generation and domain.ErrIndexCorrupt on undecodable
	// state; both mean "rebuild", never a hard failure.
	LoadGeneration(ctx context.Context, fingerprint string) (*Generation, error)

	// GetResults returns cached retrieval results for the key, or
	// domain.ErrNotFound on a miss or expired entry.
	GetResults(ctx context.Context, key string) ([]domain.SearchResult, error)

	// PutResults caches retrieval results under the key, tagged with
	// the generation they were computed against.
	PutResults(ctx context.Context, fingerprint, key string, results []domain.SearchResult, ttl time.Duration) error

	// PurgeResults drops cached results not belonging to the given
	// generation. Called on rebuild.
	PurgeResults(ctx context.Context, keepFingerprint string) error

	// Close closes the underlying database.
	Close() error
}
