// Package chunker splits normalised document text into overlapping
// passages for indexing.
//
// Breaks prefer paragraph, then line, then sentence, then word
// boundaries over mid-word cuts. Consecutive chunks from the same
// document overlap by a configured number of characters so that
// retrieval and adjacency merging do not lose context across the
// artificial split points. Chunk IDs are dense, zero based, and
// assigned across the whole corpus in document order.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// DefaultChunkSize is the default target chunk length in characters.
const DefaultChunkSize = 700

// DefaultChunkOverlap is the default overlap between consecutive
// chunks of the same document.
const DefaultChunkOverlap = 200

// separators in break-preference order. A triple newline marks a
// table or section gap in converted .docx text, so it outranks a
// paragraph break.
var separators = []string{"\n\n\n", "\n\n", "\n", ". ", " "}

// Chunker splits document text into overlapping passages.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk length in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split chunks every document in corpus order. Chunk IDs continue
// across document boundaries; ordering is significant and the result
// is deterministic for fixed input and configuration.
func (c *Chunker) Split(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk

	for _, doc := range docs {
		for _, piece := range c.splitText(doc.Content) {
			chunks = append(chunks, domain.Chunk{
				ChunkID: len(chunks),
				Source:  doc.Source,
				Content: piece,
			})
		}
	}

	return chunks
}

// splitText splits one document's text into overlapping pieces.
func (c *Chunker) splitText(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var pieces []string
	start := 0

	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
				pieces = append(pieces, piece)
			}
			break
		}

		end = c.adjustToBoundary(runes, start, end)
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			pieces = append(pieces, piece)
		}

		// Step back by the overlap, but always make forward progress.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return pieces
}

// adjustToBoundary moves the cut point back to the best separator in
// the second half of the window. If no separator is found the chunk is
// cut hard at end; mid-word breaks only happen for pathological input
// with no whitespace at all.
func (c *Chunker) adjustToBoundary(runes []rune, start, end int) int {
	mid := start + (end-start)/2
	window := string(runes[mid:end])

	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			// Keep the separator with the current chunk.
			return mid + utf8.RuneCountInString(window[:idx]) + utf8.RuneCountInString(sep)
		}
	}

	return end
}
