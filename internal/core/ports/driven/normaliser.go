package driven

import "context"

// Normaliser extracts plain text from one document format. The corpus
// source picks a normaliser by file extension; formats without a
// registered normaliser are skipped with a warning rather than failing
// the load.
type Normaliser interface {
	// Extensions returns the lowercase file extensions this
	// normaliser handles, including the leading dot.
	Extensions() []string

	// Normalise converts raw file bytes to plain text. Paragraphs
	// are separated by single newlines; a blank line marks a
	// section or table gap.
	Normalise(ctx context.Context, raw []byte) (string, error)
}
