package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// cachedResults pairs stored results with their expiry.
type cachedResults struct {
	fingerprint string
	results     []domain.SearchResult
	expiresAt   time.Time
}

// IndexStore is an in-memory implementation of driven.IndexStore for
// testing and throwaway runs.
type IndexStore struct {
	mu      sync.RWMutex
	gen     *driven.Generation
	results map[string]cachedResults
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		results: make(map[string]cachedResults),
	}
}

// SaveGeneration atomically replaces the stored generation.
func (s *IndexStore) SaveGeneration(_ context.Context, gen driven.Generation) error {
	if gen.Fingerprint == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := gen
	copied.Chunks = append([]domain.Chunk(nil), gen.Chunks...)
	s.gen = &copied
	return nil
}

// LoadGeneration retrieves the stored generation if its fingerprint
// matches.
func (s *IndexStore) LoadGeneration(_ context.Context, fingerprint string) (*driven.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gen == nil {
		return nil, domain.ErrNotFound
	}
	if s.gen.Fingerprint != fingerprint {
		return nil, domain.ErrFingerprintMismatch
	}
	if len(s.gen.Chunks) == 0 {
		return nil, domain.ErrIndexCorrupt
	}
	copied := *s.gen
	copied.Chunks = append([]domain.Chunk(nil), s.gen.Chunks...)
	return &copied, nil
}

// GetResults returns cached retrieval results for the key.
func (s *IndexStore) GetResults(_ context.Context, key string) ([]domain.SearchResult, error) {
	s.mu.RLock()
	cached, ok := s.results[key]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if time.Now().After(cached.expiresAt) {
		s.mu.Lock()
		delete(s.results, key)
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	return append([]domain.SearchResult(nil), cached.results...), nil
}

// PutResults caches retrieval results under the key.
func (s *IndexStore) PutResults(_ context.Context, fingerprint, key string, results []domain.SearchResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key] = cachedResults{
		fingerprint: fingerprint,
		results:     append([]domain.SearchResult(nil), results...),
		expiresAt:   time.Now().Add(ttl),
	}
	return nil
}

// PurgeResults drops cached results from other generations.
func (s *IndexStore) PurgeResults(_ context.Context, keepFingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for key, cached := range s.results {
		if cached.fingerprint != keepFingerprint || now.After(cached.expiresAt) {
			delete(s.results, key)
		}
	}
	return nil
}

// Close is a no-op for the memory store.
func (s *IndexStore) Close() error {
	return nil
}
