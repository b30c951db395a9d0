package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// Compile-time interface checks for the mocks.
var (
	_ driven.CorpusSource = (*mockCorpus)(nil)
	_ driven.IndexStore   = (*mockIndexStore)(nil)
	_ driven.VectorIndex  = (*mockVectors)(nil)
	_ driven.LexicalIndex = (*naiveLexical)(nil)
	_ driven.Reranker     = (*mockReranker)(nil)
)

type mockCorpus struct {
	docs      []domain.Document
	stamps    []domain.FileStamp
	loadErr   error
	loadCalls int
}

func (m *mockCorpus) Load(context.Context) ([]domain.Document, error) {
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.docs, nil
}

func (m *mockCorpus) Stamps(context.Context) ([]domain.FileStamp, error) {
	return m.stamps, nil
}

type cachedEntry struct {
	fingerprint string
	results     []domain.SearchResult
}

type mockIndexStore struct {
	gen        *driven.Generation
	cached     map[string]cachedEntry
	saveCalls  int
	putCalls   int
	cacheHits  int
	purgeCalls int
}

func newMockIndexStore() *mockIndexStore {
	return &mockIndexStore{cached: make(map[string]cachedEntry)}
}

func (m *mockIndexStore) SaveGeneration(_ context.Context, gen driven.Generation) error {
	m.saveCalls++
	copied := gen
	copied.Chunks = append([]domain.Chunk(nil), gen.Chunks...)
	m.gen = &copied
	return nil
}

func (m *mockIndexStore) LoadGeneration(_ context.Context, fingerprint string) (*driven.Generation, error) {
	if m.gen == nil {
		return nil, domain.ErrNotFound
	}
	if m.gen.Fingerprint != fingerprint {
		return nil, domain.ErrFingerprintMismatch
	}
	copied := *m.gen
	copied.Chunks = append([]domain.Chunk(nil), m.gen.Chunks...)
	return &copied, nil
}

func (m *mockIndexStore) GetResults(_ context.Context, key string) ([]domain.SearchResult, error) {
	entry, ok := m.cached[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.cacheHits++
	return append([]domain.SearchResult(nil), entry.results...), nil
}

func (m *mockIndexStore) PutResults(_ context.Context, fingerprint, key string, results []domain.SearchResult, _ time.Duration) error {
	m.putCalls++
	m.cached[key] = cachedEntry{
		fingerprint: fingerprint,
		results:     append([]domain.SearchResult(nil), results...),
	}
	return nil
}

func (m *mockIndexStore) PurgeResults(_ context.Context, keepFingerprint string) error {
	m.purgeCalls++
	for key, entry := range m.cached {
		if entry.fingerprint != keepFingerprint {
			delete(m.cached, key)
		}
	}
	return nil
}

func (m *mockIndexStore) Close() error { return nil }

// mockVectors ranks added chunks by query token overlap, which is
// deterministic and close enough to similarity search for pipeline
// tests.
type mockVectors struct {
	added     map[string][]domain.Chunk
	addCalls  int
	dropCalls int
	searchErr error
}

func newMockVectors() *mockVectors {
	return &mockVectors{added: make(map[string][]domain.Chunk)}
}

func (m *mockVectors) Add(_ context.Context, fingerprint string, chunks []domain.Chunk) error {
	m.addCalls++
	m.added[fingerprint] = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *mockVectors) Search(_ context.Context, fingerprint, query string, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	chunks, ok := m.added[fingerprint]
	if !ok {
		return nil, domain.ErrIndexNotReady
	}

	tokens := strings.Fields(strings.ToLower(query))
	var hits []driven.VectorHit
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		overlap := 0
		for _, token := range tokens {
			if strings.Contains(content, token) {
				overlap++
			}
		}
		if overlap > 0 {
			hits = append(hits, driven.VectorHit{
				ChunkID:    chunk.ChunkID,
				Similarity: float64(overlap) / float64(len(tokens)+1),
			})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockVectors) Has(_ context.Context, fingerprint string) bool {
	_, ok := m.added[fingerprint]
	return ok
}

func (m *mockVectors) Drop(_ context.Context, keepFingerprint string) error {
	m.dropCalls++
	for fingerprint := range m.added {
		if fingerprint != keepFingerprint {
			delete(m.added, fingerprint)
		}
	}
	return nil
}

func (m *mockVectors) Close() error { return nil }

// naiveLexical ranks chunks by raw query term frequency.
type naiveLexical struct {
	chunks []domain.Chunk
}

func newNaiveLexical(chunks []domain.Chunk) driven.LexicalIndex {
	return &naiveLexical{chunks: chunks}
}

func (l *naiveLexical) Scores(_ context.Context, query string) ([]float64, error) {
	tokens := strings.Fields(strings.ToLower(query))
	scores := make([]float64, len(l.chunks))
	for i, chunk := range l.chunks {
		content := strings.ToLower(chunk.Content)
		for _, token := range tokens {
			scores[i] += float64(strings.Count(content, token))
		}
	}
	return scores, nil
}

func (l *naiveLexical) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	scores, err := l.Scores(ctx, query)
	if err != nil {
		return nil, err
	}
	var hits []driven.SearchHit
	for chunkID, score := range scores {
		if score > 0 {
			hits = append(hits, driven.SearchHit{ChunkID: chunkID, Score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (l *naiveLexical) Len() int { return len(l.chunks) }

type mockReranker struct {
	scores       []float64
	err          error
	calls        int
	lastQuery    string
	lastPassages []string
}

func (m *mockReranker) Rerank(_ context.Context, query string, passages []string) ([]float64, error) {
	m.calls++
	m.lastQuery = query
	m.lastPassages = passages
	if m.err != nil {
		return nil, m.err
	}
	if m.scores != nil {
		return m.scores, nil
	}
	// Default: reverse the incoming order so reordering is visible.
	scores := make([]float64, len(passages))
	for i := range scores {
		scores[i] = float64(i + 1)
	}
	return scores, nil
}

func (m *mockReranker) ModelName() string { return "mock-cross-encoder" }
