package driven

import "github.com/custodia-labs/hrdesk-cli/internal/core/domain"

// AnswerCache maps a user query (and optional conversation context) to
// a previously generated answer. Implementations provide an in-memory
// hot tier over durable per-entry storage with fuzzy keyword-overlap
// matching.
//
// Writes are best-effort: callers must not assume every Set results in
// a persisted entry. Answers that are empty, below the minimum length,
// or that look like intermediate tool-call transcripts are silently
// dropped (and any earlier entry under the same key is removed).
type AnswerCache interface {
	// Get returns the cached answer for the query, if a fresh exact or
	// sufficiently similar entry exists.
	Get(query, context string) (string, bool)

	// Set caches an answer for the query.
	Set(query, answer, context string)

	// ClearExpired removes every expired durable entry and returns the
	// number deleted.
	ClearExpired() int

	// ClearAll removes every entry from both tiers.
	ClearAll() error

	// Stats returns cache counters and size gauges.
	Stats() domain.CacheStats
}
