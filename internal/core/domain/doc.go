// Package domain defines the core business entities for hrdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a policy document loaded from the corpus
//   - Chunk: a searchable unit of the chunked corpus
//   - SearchResult: a single retrieval hit
//   - Settings: the full configuration surface
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
