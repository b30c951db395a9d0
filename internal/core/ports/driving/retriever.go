package driving

import (
	"context"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// Retriever provides hybrid retrieval over the policy corpus to
// external actors. The orchestration layer consumes it as a single
// callable tool.
type Retriever interface {
	// BuildIndex builds or loads the index generation. Must be called
	// before Search; force skips any persisted generation.
	BuildIndex(ctx context.Context, force bool) error

	// Search performs hybrid retrieval and returns at most topK
	// results sorted by descending score. topK <= 0 uses the
	// configured default. Returns domain.ErrIndexNotReady when called
	// before BuildIndex.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// SearchFormatted renders results in the fixed textual contract
	// consumed by the agent boundary: bracketed index, numeric score,
	// source name, content, and a trailing "Sources:" line.
	SearchFormatted(ctx context.Context, query string, topK int) (string, error)

	// LastSources returns the unique source names emitted by the most
	// recent SearchFormatted call.
	LastSources() []string
}
