package driven

import (
	"context"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// CorpusSource supplies raw policy documents and their change stamps.
// The document store behind it (local directory, object storage sync)
// is an external collaborator; core only sees names, text, and
// modification markers.
type CorpusSource interface {
	// Load reads and normalises every document in the corpus.
	// Unreadable files are skipped with a warning, not fatal.
	Load(ctx context.Context) ([]domain.Document, error)

	// Stamps returns one fingerprint input per file without loading
	// content. The set is order independent.
	Stamps(ctx context.Context) ([]domain.FileStamp, error)
}
