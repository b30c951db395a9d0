package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is a SQLite-backed index store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.hrdesk/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hrdesk", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveGeneration atomically replaces the stored generation and its
// chunk sequence.
func (s *Store) SaveGeneration(ctx context.Context, gen driven.Generation) error {
	if gen.Fingerprint == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM generations"); err != nil {
		return fmt.Errorf("clearing generation: %w", err)
	}

	builtAt := gen.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO generations (id, fingerprint, built_at) VALUES (1, ?, ?)
	`, gen.Fingerprint, builtAt); err != nil {
		return fmt.Errorf("saving generation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, source, content) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range gen.Chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ChunkID, chunk.Source, chunk.Content); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadGeneration retrieves the stored generation if its fingerprint
// matches the expected one.
func (s *Store) LoadGeneration(ctx context.Context, fingerprint string) (*driven.Generation, error) {
	row := s.db.QueryRowContext(ctx, "SELECT fingerprint, built_at FROM generations WHERE id = 1")

	var gen driven.Generation
	if err := row.Scan(&gen.Fingerprint, &gen.BuiltAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning generation: %w", domain.ErrIndexCorrupt)
	}

	if gen.Fingerprint != fingerprint {
		return nil, fmt.Errorf("stored %s, expected %s: %w",
			gen.Fingerprint, fingerprint, domain.ErrFingerprintMismatch)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, source, content FROM chunks ORDER BY chunk_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ChunkID, &chunk.Source, &chunk.Content); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", domain.ErrIndexCorrupt)
		}
		gen.Chunks = append(gen.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// A generation row without chunks means a half-written build.
	if len(gen.Chunks) == 0 {
		return nil, fmt.Errorf("generation %s has no chunks: %w", fingerprint, domain.ErrIndexCorrupt)
	}

	// Chunk IDs must be dense and zero based.
	for i, chunk := range gen.Chunks {
		if chunk.ChunkID != i {
			return nil, fmt.Errorf("chunk ID gap at %d: %w", i, domain.ErrIndexCorrupt)
		}
	}

	return &gen, nil
}

// GetResults returns cached retrieval results for the key. Expired
// entries are deleted on read.
func (s *Store) GetResults(ctx context.Context, key string) ([]domain.SearchResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT results, expires_at FROM result_cache WHERE key = ?
	`, key)

	var resultsJSON string
	var expiresAt time.Time
	if err := row.Scan(&resultsJSON, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cached results: %w", err)
	}

	if time.Now().After(expiresAt) {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM result_cache WHERE key = ?", key)
		return nil, domain.ErrNotFound
	}

	var results []domain.SearchResult
	if err := json.Unmarshal([]byte(resultsJSON), &results); err != nil {
		return nil, fmt.Errorf("unmarshaling cached results: %w", err)
	}
	return results, nil
}

// PutResults caches retrieval results under the key.
func (s *Store) PutResults(ctx context.Context, fingerprint, key string, results []domain.SearchResult, ttl time.Duration) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO result_cache (key, fingerprint, results, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			results = excluded.results,
			expires_at = excluded.expires_at
	`, key, fingerprint, string(resultsJSON), time.Now().Add(ttl).UTC())

	if err != nil {
		return fmt.Errorf("caching results: %w", err)
	}
	return nil
}

// PurgeResults drops cached results that belong to other generations
// or have expired.
func (s *Store) PurgeResults(ctx context.Context, keepFingerprint string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM result_cache WHERE fingerprint != ? OR expires_at < ?
	`, keepFingerprint, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("purging cached results: %w", err)
	}
	return nil
}
