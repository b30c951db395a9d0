package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

func TestSplit_ShortDocumentSingleChunk(t *testing.T) {
	c := New()

	chunks := c.Split([]domain.Document{
		{Source: "leave.docx", Content: "Annual leave accrues monthly."},
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkID)
	assert.Equal(t, "leave.docx", chunks[0].Source)
	assert.Equal(t, "Annual leave accrues monthly.", chunks[0].Content)
}

func TestSplit_EmptyDocumentProducesNothing(t *testing.T) {
	c := New()

	chunks := c.Split([]domain.Document{
		{Source: "empty.txt", Content: ""},
		{Source: "blank.txt", Content: "   \n\n  "},
	})

	assert.Empty(t, chunks)
}

func TestSplit_DenseIDsAcrossDocuments(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(10))

	long := strings.Repeat("The probation period lasts ninety days. ", 20)
	chunks := c.Split([]domain.Document{
		{Source: "a.docx", Content: long},
		{Source: "b.docx", Content: long},
	})

	require.Greater(t, len(chunks), 2)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkID)
	}

	sources := map[string]bool{}
	for _, ch := range chunks {
		sources[ch.Source] = true
	}
	assert.True(t, sources["a.docx"])
	assert.True(t, sources["b.docx"])
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))

	long := strings.Repeat("Employees must submit expense reports within thirty days. ", 30)
	chunks := c.Split([]domain.Document{{Source: "expenses.txt", Content: long}})

	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Content)), 100)
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	c := New(WithChunkSize(80), WithOverlap(0))

	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	chunks := c.Split([]domain.Document{
		{Source: "p.txt", Content: para1 + "\n\n" + para2},
	})

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, para1, chunks[0].Content)
}

func TestSplit_PrefersSentenceOverWordBoundary(t *testing.T) {
	c := New(WithChunkSize(60), WithOverlap(0))

	text := "Sick leave requires a doctors note. Carry over is capped at five days per year for all staff."
	chunks := c.Split([]domain.Document{{Source: "s.txt", Content: text}})

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0].Content, "note."),
		"expected sentence boundary cut, got %q", chunks[0].Content)
}

func TestSplit_OverlapCarriesContext(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(40))

	words := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		words = append(words, "policy")
	}
	text := strings.Join(words, " ")
	chunks := c.Split([]domain.Document{{Source: "o.txt", Content: text}})

	require.GreaterOrEqual(t, len(chunks), 2)

	// The tail of each chunk reappears at the head of the next.
	tail := chunks[0].Content[len(chunks[0].Content)-20:]
	assert.Contains(t, chunks[1].Content, strings.TrimSpace(tail))
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(WithChunkSize(90), WithOverlap(30))

	docs := []domain.Document{
		{Source: "x.txt", Content: strings.Repeat("Remote work requires manager approval. ", 25)},
	}

	first := c.Split(docs)
	second := c.Split(docs)
	assert.Equal(t, first, second)
}

func TestSplit_NoWhitespaceFallsBackToHardCut(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(0))

	chunks := c.Split([]domain.Document{
		{Source: "h.txt", Content: strings.Repeat("x", 120)},
	})

	require.Len(t, chunks, 3)
	assert.Equal(t, 50, len(chunks[0].Content))
}

func TestNew_OverlapClampedBelowChunkSize(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(150))

	assert.Equal(t, 25, c.overlap)
}
