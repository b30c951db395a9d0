package domain

// SearchResult represents a single retrieval hit. Results are
// ephemeral: produced per query, never persisted beyond the response
// cache (and there only as rendered text).
type SearchResult struct {
	// Content is the chunk text, possibly with a trailing
	// "Highlights:" excerpt and possibly spanning several merged
	// adjacent chunks.
	Content string

	// Source is the source file name.
	Source string

	// Score is the composite relevance score (post-rerank when
	// reranking is enabled).
	Score float64

	// ChunkID is the corpus chunk ordinal; for a merged run of
	// adjacent chunks it is the last ID in the run. Synthetic
	// synopsis results carry a negative sentinel ID.
	ChunkID int
}

// CacheStats reports response-cache counters. All counters are
// monotonically increasing and used only for observability.
type CacheStats struct {
	TotalQueries int `json:"total_queries"`
	Hits         int `json:"hits"`
	Misses       int `json:"misses"`
	MemoryHits   int `json:"memory_hits"`
	DiskHits     int `json:"disk_hits"`
	ExactHits    int `json:"exact_hits"`
	FuzzyHits    int `json:"fuzzy_hits"`

	// Gauges captured at read time, not persisted counters.
	MemoryCacheSize int `json:"memory_cache_size"`
	DiskCacheFiles  int `json:"disk_cache_files"`
	QueryIndexSize  int `json:"query_index_size"`
}
