package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 700, s.ChunkSize)
	assert.Equal(t, 200, s.ChunkOverlap)
	assert.Equal(t, 12, s.TopK)
	assert.Equal(t, 12, s.PoolMultiplier)
	assert.Equal(t, 1.5, s.LexicalWeight)
	assert.Equal(t, 1.0, s.VectorWeight)
	assert.Equal(t, 72*time.Hour, s.AnswerCacheTTL)
	assert.Equal(t, 0.75, s.SimilarityThreshold)
	assert.True(t, s.CacheEnabled)
	assert.True(t, s.RerankEnabled)
}

func TestSettings_Normalise_Valid(t *testing.T) {
	s, notes := DefaultSettings().Normalise()

	assert.Empty(t, notes)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSettings_Normalise_SubstitutesDefaults(t *testing.T) {
	bad := DefaultSettings()
	bad.ChunkSize = -1
	bad.TopK = 0
	bad.SimilarityThreshold = 1.5
	bad.PoolMultiplier = 0

	s, notes := bad.Normalise()

	assert.Equal(t, 700, s.ChunkSize)
	assert.Equal(t, 12, s.TopK)
	assert.Equal(t, 0.75, s.SimilarityThreshold)
	assert.Equal(t, 12, s.PoolMultiplier)
	assert.ElementsMatch(t,
		[]string{"chunk_size", "top_k", "similarity_threshold", "pool_multiplier"},
		notes)
}

func TestSettings_Normalise_OverlapClamped(t *testing.T) {
	bad := DefaultSettings()
	bad.ChunkOverlap = bad.ChunkSize + 100

	s, notes := bad.Normalise()

	assert.Equal(t, s.ChunkSize/4, s.ChunkOverlap)
	assert.Contains(t, notes, "chunk_overlap")
}
