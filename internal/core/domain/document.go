package domain

import "time"

// Document represents a policy document loaded from the corpus.
// It is the canonical representation after normalisation and
// placeholder sanitisation; immutable once loaded.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the source file name (e.g. "Sickness-And-Absence-Policy.docx").
	Source string

	// URI is the original location (file path, object key, etc).
	URI string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// ModTime is the file's modification marker, used as a
	// fingerprint input for index invalidation.
	ModTime time.Time
}

// Chunk represents a searchable unit of the chunked corpus.
// Chunk IDs are dense, zero based, and assigned across the whole
// corpus in document order, so consecutive IDs from the same source
// are textually adjacent. IDs are only stable within one index
// generation; a rebuild may renumber everything.
type Chunk struct {
	// ChunkID is the ordinal position within the corpus.
	ChunkID int

	// Source is the source file name inherited from the document.
	Source string

	// Content is the text content of this chunk.
	Content string
}

// FileStamp is one fingerprint input supplied by the corpus source.
// The fingerprint over a set of stamps is order independent.
type FileStamp struct {
	// Name is the source file name.
	Name string

	// ModTime is the file's modification time.
	ModTime time.Time
}
