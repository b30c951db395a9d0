// Package normalisers provides implementations of the Normaliser
// interface for the document formats found in an HR policy corpus.
// Each normaliser knows how to extract plain text from one file
// format.
//
// Normalisers are registered with the filesystem corpus source at
// startup.
package normalisers
