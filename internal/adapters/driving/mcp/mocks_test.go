package mcp

import (
	"context"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driving"
)

var (
	_ driving.Retriever  = (*mockRetriever)(nil)
	_ driven.AnswerCache = (*mockAnswerCache)(nil)
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results   []domain.SearchResult
	formatted string
	sources   []string
	err       error

	lastQuery string
	lastTopK  int
}

func (m *mockRetriever) BuildIndex(_ context.Context, _ bool) error {
	return m.err
}

func (m *mockRetriever) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRetriever) SearchFormatted(_ context.Context, query string, topK int) (string, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.formatted, m.err
}

func (m *mockRetriever) LastSources() []string {
	return m.sources
}

// mockAnswerCache is a mock implementation of driven.AnswerCache.
type mockAnswerCache struct {
	answers map[string]string
	stats   domain.CacheStats

	setQuery   string
	setAnswer  string
	setContext string
}

func newMockAnswerCache() *mockAnswerCache {
	return &mockAnswerCache{answers: make(map[string]string)}
}

func (m *mockAnswerCache) Get(query, _ string) (string, bool) {
	answer, ok := m.answers[query]
	return answer, ok
}

func (m *mockAnswerCache) Set(query, answer, context string) {
	m.setQuery = query
	m.setAnswer = answer
	m.setContext = context
	m.answers[query] = answer
}

func (m *mockAnswerCache) ClearExpired() int { return 0 }

func (m *mockAnswerCache) ClearAll() error { return nil }

func (m *mockAnswerCache) Stats() domain.CacheStats { return m.stats }
