package cli

import (
	"bytes"
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
	buildErr  error
	searchErr error

	buildCalls int
	lastForce  bool
	lastQuery  string
	lastTopK   int
}

func (m *mockRetriever) BuildIndex(_ context.Context, force bool) error {
	m.buildCalls++
	m.lastForce = force
	return m.buildErr
}

func (m *mockRetriever) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockRetriever) SearchFormatted(_ context.Context, query string, topK int) (string, error) {
	m.lastQuery = query
	m.lastTopK = topK
	if m.searchErr != nil {
		return "", m.searchErr
	}
	return m.formatted, nil
}

func (m *mockRetriever) LastSources() []string { return m.sources }

// mockAnswerCache is a mock implementation of driven.AnswerCache.
type mockAnswerCache struct {
	answers  map[string]string
	stats    domain.CacheStats
	expired  int
	clearErr error

	clearCalls int
}

func newMockAnswerCache() *mockAnswerCache {
	return &mockAnswerCache{answers: make(map[string]string)}
}

func (m *mockAnswerCache) Get(query, _ string) (string, bool) {
	answer, ok := m.answers[query]
	return answer, ok
}

func (m *mockAnswerCache) Set(query, answer, _ string) {
	m.answers[query] = answer
}

func (m *mockAnswerCache) ClearExpired() int { return m.expired }

func (m *mockAnswerCache) ClearAll() error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.answers = make(map[string]string)
	return nil
}

func (m *mockAnswerCache) Stats() domain.CacheStats { return m.stats }

// setupTestServices swaps in mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() (*mockRetriever, *mockAnswerCache, func()) {
	oldRetriever := retrieverService
	oldCache := answerCache
	oldSettings := appSettings

	retriever := &mockRetriever{
		results: []domain.SearchResult{
			{
				Content: "Employees accrue twenty five days of annual leave per year.",
				Source:  "Annual-Leave-Policy.docx",
				Score:   2.134,
				ChunkID: 0,
			},
		},
		formatted: "Found 1 relevant results:\n\n[1] (Score: 2.134) Annual-Leave-Policy.docx\nEmployees accrue twenty five days of annual leave per year.\n\nSources: Annual-Leave-Policy.docx\n",
		sources:   []string{"Annual-Leave-Policy.docx"},
	}
	cache := newMockAnswerCache()

	retrieverService = retriever
	answerCache = cache
	appSettings = domain.DefaultSettings()

	return retriever, cache, func() {
		retrieverService = oldRetriever
		answerCache = oldCache
		appSettings = oldSettings
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
