package domain

import "time"

// Settings holds the full configuration surface. It is constructed
// once at startup (config file + flag overrides) and passed by value
// into each component constructor; no component reads configuration
// from ambient state.
type Settings struct {
	// DataDir is the directory scanned for corpus documents.
	DataDir string

	// IndexDir is where index generations are persisted.
	IndexDir string

	// CacheDir is where answer cache entries are persisted.
	CacheDir string

	// VersionTag, when set, replaces the computed corpus fingerprint
	// input. Used when an external document source supplies its own
	// change marker (ETag style).
	VersionTag string

	// Chunking.

	// ChunkSize is the target maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the character overlap between consecutive
	// chunks of the same document.
	ChunkOverlap int

	// Retrieval.

	// TopK is the default number of results per query.
	TopK int

	// LexicalWeight is the lexical leg's weight in rank fusion.
	// Defaults higher than VectorWeight: exact keyword matches are
	// disproportionately important for policy lookup.
	LexicalWeight float64

	// VectorWeight is the vector leg's weight in rank fusion.
	VectorWeight float64

	// PoolMultiplier expands the candidate pool before fusion.
	// Both legs retrieve max(TopK*PoolMultiplier, TopK) candidates
	// to compensate for losses in merging and reranking.
	PoolMultiplier int

	// ConfidenceThreshold gates the formatted output. If the best
	// score is below it and keyword overlap with the top result is
	// weak, retrieval reports no relevant documents.
	ConfidenceThreshold float64

	// EmbeddingDimensions is the vector size of the local embedder.
	EmbeddingDimensions int

	// Reranking.

	// RerankEnabled toggles the cross-encoder rerank stage.
	RerankEnabled bool

	// RerankPoolSize is how many fused candidates are rescored.
	RerankPoolSize int

	// RerankerURL is the scoring service endpoint. Empty disables
	// reranking regardless of RerankEnabled.
	RerankerURL string

	// RerankerModel is the cross-encoder model identifier.
	RerankerModel string

	// Caching.

	// CacheEnabled toggles both the result cache and the answer cache.
	CacheEnabled bool

	// ResultCacheTTL bounds reuse of cached retrieval results.
	ResultCacheTTL time.Duration

	// AnswerCacheTTL bounds reuse of cached answers.
	AnswerCacheTTL time.Duration

	// SimilarityThreshold is the minimum keyword Jaccard similarity
	// for a fuzzy answer-cache hit.
	SimilarityThreshold float64

	// MinAnswerLength rejects trivially short answers from the cache.
	MinAnswerLength int

	// MaxMemoryEntries caps the in-memory answer-cache tier.
	MaxMemoryEntries int
}

// DefaultSettings returns settings with production defaults, tuned
// for corpora of a hundred-odd policy documents.
func DefaultSettings() Settings {
	return Settings{
		DataDir:  "data",
		IndexDir: ".hrdesk/index",
		CacheDir: ".hrdesk/answers",

		ChunkSize:    700,
		ChunkOverlap: 200,

		TopK:                12,
		LexicalWeight:       1.5,
		VectorWeight:        1.0,
		PoolMultiplier:      12,
		ConfidenceThreshold: -7.5,
		EmbeddingDimensions: 384,

		RerankEnabled:  true,
		RerankPoolSize: 50,
		RerankerModel:  "cross-encoder/ms-marco-MiniLM-L-6-v2",

		CacheEnabled:        true,
		ResultCacheTTL:      time.Hour,
		AnswerCacheTTL:      72 * time.Hour,
		SimilarityThreshold: 0.75,
		MinAnswerLength:     60,
		MaxMemoryEntries:    200,
	}
}

// Normalise replaces out-of-range values with defaults and reports
// each substitution. Configuration problems are never fatal.
func (s Settings) Normalise() (Settings, []string) {
	def := DefaultSettings()
	var notes []string

	fix := func(name string, bad bool, apply func()) {
		if bad {
			apply()
			notes = append(notes, name)
		}
	}

	fix("chunk_size", s.ChunkSize <= 0, func() { s.ChunkSize = def.ChunkSize })
	fix("chunk_overlap", s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize, func() { s.ChunkOverlap = s.ChunkSize / 4 })
	fix("top_k", s.TopK <= 0, func() { s.TopK = def.TopK })
	fix("lexical_weight", s.LexicalWeight <= 0, func() { s.LexicalWeight = def.LexicalWeight })
	fix("vector_weight", s.VectorWeight <= 0, func() { s.VectorWeight = def.VectorWeight })
	fix("pool_multiplier", s.PoolMultiplier < 1, func() { s.PoolMultiplier = def.PoolMultiplier })
	fix("embedding_dimensions", s.EmbeddingDimensions <= 0, func() { s.EmbeddingDimensions = def.EmbeddingDimensions })
	fix("rerank_pool_size", s.RerankPoolSize <= 0, func() { s.RerankPoolSize = def.RerankPoolSize })
	fix("result_cache_ttl", s.ResultCacheTTL <= 0, func() { s.ResultCacheTTL = def.ResultCacheTTL })
	fix("answer_cache_ttl", s.AnswerCacheTTL <= 0, func() { s.AnswerCacheTTL = def.AnswerCacheTTL })
	fix("similarity_threshold", s.SimilarityThreshold <= 0 || s.SimilarityThreshold > 1, func() { s.SimilarityThreshold = def.SimilarityThreshold })
	fix("min_answer_length", s.MinAnswerLength < 0, func() { s.MinAnswerLength = def.MinAnswerLength })
	fix("max_memory_entries", s.MaxMemoryEntries <= 0, func() { s.MaxMemoryEntries = def.MaxMemoryEntries })

	return s, notes
}
