package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Per the retrieval contract, only ErrIndexNotReady is surfaced to
// callers as a hard failure; every other fault degrades to a rebuild,
// a cache miss, or the pre-fault ordering.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown normaliser or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexNotReady indicates search was invoked before an index
	// generation was built or loaded. Returning empty results here
	// would silently hide a wiring bug, so this fails loudly.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrFingerprintMismatch indicates a persisted index generation was
	// built from a different corpus or chunking configuration. Treated
	// as a miss by the load path; triggers a full rebuild.
	ErrFingerprintMismatch = errors.New("index fingerprint mismatch")

	// ErrIndexCorrupt indicates a persisted index generation could not
	// be decoded. Treated as a miss; the store is cleared and rebuilt.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRerankerUnavailable indicates the reranker is disabled or
	// unreachable. Retrieval falls back to the fused ordering.
	ErrRerankerUnavailable = errors.New("reranker unavailable")

	// ErrEmptyCorpus indicates the corpus source yielded no documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrUncacheableAnswer indicates an answer was rejected by the cache
	// write path (empty, too short, or a tool-call transcript). Writes
	// are best-effort, so callers normally ignore this.
	ErrUncacheableAnswer = errors.New("uncacheable answer")
)
