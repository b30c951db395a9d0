package driven

import (
	"context"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// LexicalIndexFactory builds a LexicalIndex over a chunk sequence.
// The index is rebuilt per generation, so core receives a factory
// rather than a long-lived instance.
type LexicalIndexFactory func(chunks []domain.Chunk) LexicalIndex

// LexicalIndex provides keyword ranking over the chunked corpus.
// Backed by an in-process BM25 index built per generation; read-only
// once built.
type LexicalIndex interface {
	// Search performs a keyword search and returns ranked chunk hits.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// Scores returns the raw BM25 relevance of every chunk for the
	// query, indexed by chunk ID. Used for lexical boost rescoring.
	Scores(ctx context.Context, query string) ([]float64, error)

	// Len returns the number of indexed chunks.
	Len() int
}

// SearchHit represents a lexical search result.
type SearchHit struct {
	// ChunkID is the matched chunk ordinal.
	ChunkID int

	// Score is the BM25 relevance score.
	Score float64
}
