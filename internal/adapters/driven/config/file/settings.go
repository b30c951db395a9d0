package file

import (
	"time"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
)

// LoadSettings builds the settings surface from a config store,
// falling back to defaults for absent keys. Presence is checked per
// key so legitimate zero and negative values survive (the confidence
// threshold is negative by default).
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()

	setString(store, "data_dir", &s.DataDir)
	setString(store, "index_dir", &s.IndexDir)
	setString(store, "cache_dir", &s.CacheDir)
	setString(store, "version_tag", &s.VersionTag)

	setInt(store, "chunk_size", &s.ChunkSize)
	setInt(store, "chunk_overlap", &s.ChunkOverlap)
	setInt(store, "top_k", &s.TopK)
	setInt(store, "pool_multiplier", &s.PoolMultiplier)
	setInt(store, "embedding_dimensions", &s.EmbeddingDimensions)
	setInt(store, "rerank_pool_size", &s.RerankPoolSize)
	setInt(store, "min_answer_length", &s.MinAnswerLength)
	setInt(store, "max_memory_entries", &s.MaxMemoryEntries)

	setFloat(store, "lexical_weight", &s.LexicalWeight)
	setFloat(store, "vector_weight", &s.VectorWeight)
	setFloat(store, "confidence_threshold", &s.ConfidenceThreshold)
	setFloat(store, "similarity_threshold", &s.SimilarityThreshold)

	setBool(store, "rerank_enabled", &s.RerankEnabled)
	setBool(store, "cache_enabled", &s.CacheEnabled)

	setString(store, "reranker_url", &s.RerankerURL)
	setString(store, "reranker_model", &s.RerankerModel)

	setDuration(store, "result_cache_ttl", &s.ResultCacheTTL)
	setDuration(store, "answer_cache_ttl", &s.AnswerCacheTTL)

	return s
}

func setString(store driven.ConfigStore, key string, dst *string) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetString(key)
	}
}

func setInt(store driven.ConfigStore, key string, dst *int) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetInt(key)
	}
}

func setFloat(store driven.ConfigStore, key string, dst *float64) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetFloat(key)
	}
}

func setBool(store driven.ConfigStore, key string, dst *bool) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetBool(key)
	}
}

func setDuration(store driven.ConfigStore, key string, dst *time.Duration) {
	raw := store.GetString(key)
	if raw == "" {
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn("config: invalid duration for %s: %v", key, err)
		return
	}
	*dst = d
}
