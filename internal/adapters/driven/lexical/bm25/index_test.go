package bm25

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ChunkID: 0, Source: "leave.docx", Content: "Sick leave is capped at ten days per calendar year."},
		{ChunkID: 1, Source: "leave.docx", Content: "Annual leave accrues at two days per month of service."},
		{ChunkID: 2, Source: "expenses.docx", Content: "Expense reports must be submitted within thirty days."},
		{ChunkID: 3, Source: "remote.docx", Content: "Remote work requires written manager approval."},
	}
}

func TestNew_EmptyCorpus(t *testing.T) {
	idx := New(nil)
	assert.Equal(t, 0, idx.Len())

	scores, err := idx.Scores(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, scores)

	hits, err := idx.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLen(t *testing.T) {
	idx := New(testChunks())
	assert.Equal(t, 4, idx.Len())
}

func TestScores_MatchingChunksScorePositive(t *testing.T) {
	idx := New(testChunks())

	scores, err := idx.Scores(context.Background(), "sick leave days")
	require.NoError(t, err)
	require.Len(t, scores, 4)

	assert.Greater(t, scores[0], 0.0)
	// Chunk 3 shares no query token.
	assert.Zero(t, scores[3])
	// The sick leave chunk outranks the annual leave chunk.
	assert.Greater(t, scores[0], scores[1])
}

func TestScores_UnknownTokensScoreZero(t *testing.T) {
	idx := New(testChunks())

	scores, err := idx.Scores(context.Background(), "zebra xylophone")
	require.NoError(t, err)
	for _, s := range scores {
		assert.Zero(t, s)
	}
}

func TestSearch_RanksAndLimits(t *testing.T) {
	idx := New(testChunks())

	hits, err := idx.Search(context.Background(), "leave days", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	for _, h := range hits {
		assert.Greater(t, h.Score, 0.0)
	}
}

func TestSearch_ExcludesZeroScores(t *testing.T) {
	idx := New(testChunks())

	hits, err := idx.Search(context.Background(), "remote approval", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 3, hits[0].ChunkID)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	idx := New(testChunks())

	lower, err := idx.Search(context.Background(), "sick leave", 10)
	require.NoError(t, err)
	upper, err := idx.Search(context.Background(), "SICK LEAVE", 10)
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
}

func TestSearch_Deterministic(t *testing.T) {
	idx := New(testChunks())

	first, err := idx.Search(context.Background(), "days per year", 10)
	require.NoError(t, err)
	second, err := idx.Search(context.Background(), "days per year", 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("How many Sick   Days?\n")
	assert.Equal(t, []string{"how", "many", "sick", "days?"}, tokens)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.LexicalIndex = (*Index)(nil)
}
