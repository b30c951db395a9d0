// Package sqlite persists index generations and cached retrieval
// results.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. A single
// database holds:
//
//   - generations: the fingerprint and build time of the current index
//   - chunks: the ordered chunk sequence of that generation
//   - result_cache: retrieval results keyed by query, with TTL
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.hrdesk/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
