// Package semantic provides a two-tier answer cache with fuzzy
// lookup.
//
// The memory tier serves the hot path. The disk tier is one JSON file
// per entry, keyed by an MD5 of the normalised query plus context, so
// answers survive restarts. When neither tier has an exact hit, a
// keyword Jaccard similarity over previously cached queries catches
// rephrasings like "how many sick days do I get" vs "sick days per
// year". Entries expire after a TTL and tool-artifact answers are
// never cached.
package semantic

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
)

// Defaults match the cache section of the settings.
const (
	DefaultTTL                 = 72 * time.Hour
	DefaultMaxMemoryEntries    = 200
	DefaultSimilarityThreshold = 0.75
	DefaultMinAnswerLength     = 60
)

// previewLen caps the stored query preview.
const previewLen = 100

// statsFile holds the persisted counters, kept out of the entry
// namespace.
const statsFile = "cache_stats.json"

// Agent-loop debris that must never be served as an answer. The tool
// tag is rejected anywhere in the text; the transcript markers only
// when they begin a line, so prose mentioning "action:" mid-sentence
// still caches.
const searchToolTag = "[hr_document_search]"

var transcriptMarkers = []string{
	"action:",
	"observation:",
}

// Ensure Cache implements the interface.
var _ driven.AnswerCache = (*Cache)(nil)

// entry is a cached answer in memory.
type entry struct {
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	// QueryPreview keeps the start of the normalised query for
	// inspection and for rebuilding the fuzzy index from disk.
	QueryPreview string `json:"query_preview"`
	Context      string `json:"context"`
}

// Cache is a two-tier semantic answer cache.
type Cache struct {
	mu sync.Mutex

	dir                 string
	ttl                 time.Duration
	maxMemoryEntries    int
	similarityThreshold float64
	minAnswerLength     int

	memory map[string]entry
	// queryIndex maps cache key to the keyword set of its query, the
	// substrate for fuzzy matching.
	queryIndex map[string]map[string]struct{}

	stats domain.CacheStats
}

// Option configures the cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxMemoryEntries caps the memory tier.
func WithMaxMemoryEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxMemoryEntries = n
		}
	}
}

// WithSimilarityThreshold sets the minimum Jaccard similarity for a
// fuzzy hit.
func WithSimilarityThreshold(threshold float64) Option {
	return func(c *Cache) {
		if threshold > 0 && threshold <= 1 {
			c.similarityThreshold = threshold
		}
	}
}

// WithMinAnswerLength sets the shortest answer worth caching.
func WithMinAnswerLength(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.minAnswerLength = n
		}
	}
}

// New creates a cache persisting to dir. Existing disk entries seed
// the fuzzy query index so rephrasings hit across restarts.
func New(dir string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	c := &Cache{
		dir:                 dir,
		ttl:                 DefaultTTL,
		maxMemoryEntries:    DefaultMaxMemoryEntries,
		similarityThreshold: DefaultSimilarityThreshold,
		minAnswerLength:     DefaultMinAnswerLength,
		memory:              make(map[string]entry),
		queryIndex:          make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.loadIndex()
	c.loadStats()
	return c, nil
}

// Get looks up an answer for the query. Lookup order is memory exact,
// disk exact, then fuzzy. A disk hit is promoted to memory.
func (c *Cache) Get(query, context string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.TotalQueries++
	key := cacheKey(query, context)

	// Memory tier.
	if e, ok := c.memory[key]; ok {
		if c.fresh(e) {
			c.stats.Hits++
			c.stats.MemoryHits++
			c.stats.ExactHits++
			c.saveStats()
			return e.Answer, true
		}
		c.evict(key)
	}

	// Disk tier.
	if e, ok := c.loadEntry(key); ok {
		if c.fresh(e) {
			c.remember(key, e)
			c.stats.Hits++
			c.stats.DiskHits++
			c.stats.ExactHits++
			c.saveStats()
			return e.Answer, true
		}
		c.evict(key)
	}

	// Fuzzy tier.
	if answer, ok := c.fuzzyLookup(query, key); ok {
		c.stats.Hits++
		c.stats.FuzzyHits++
		c.saveStats()
		return answer, true
	}

	c.stats.Misses++
	c.saveStats()
	return "", false
}

// Set caches an answer. Caching is best effort: short answers and
// answers carrying tool artifacts are dropped, and disk write failures
// only log. A rejected write also removes any stale entry under the
// same key so a poisoned answer cannot shadow it.
func (c *Cache) Set(query, answer, context string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, context)
	if !c.cacheable(answer) {
		logger.Debug("answer cache: refusing to cache answer for %q", preview(normalizeQuery(query)))
		c.evict(key)
		return
	}

	e := entry{
		Answer:       answer,
		Timestamp:    time.Now().UTC(),
		QueryPreview: preview(normalizeQuery(query)),
		Context:      context,
	}

	c.remember(key, e)
	c.queryIndex[key] = keywords(query)

	if err := c.writeEntry(key, e); err != nil {
		logger.Warn("answer cache: disk write failed: %v", err)
	}
	c.saveStats()
}

// ClearExpired removes expired entries from both tiers and returns
// how many were dropped.
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.memory {
		if !c.fresh(e) {
			delete(c.memory, key)
		}
	}

	for _, key := range c.diskKeys() {
		e, ok := c.loadEntry(key)
		if ok && c.fresh(e) {
			continue
		}
		c.evict(key)
		removed++
	}
	return removed
}

// ClearAll wipes both tiers and the fuzzy index.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memory = make(map[string]entry)
	c.queryIndex = make(map[string]map[string]struct{})

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, de := range entries {
		if filepath.Ext(de.Name()) != ".json" || de.Name() == statsFile {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, de.Name())); err != nil {
			return fmt.Errorf("removing cache file %s: %w", de.Name(), err)
		}
	}
	return nil
}

// Stats returns a snapshot of the cache counters and sizes.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.MemoryCacheSize = len(c.memory)
	stats.DiskCacheFiles = len(c.diskKeys())
	stats.QueryIndexSize = len(c.queryIndex)
	return stats
}

// fuzzyLookup finds the most similar previously cached query above the
// threshold and serves its answer. selfKey is excluded; exact lookups
// already failed for it.
func (c *Cache) fuzzyLookup(query, selfKey string) (string, bool) {
	queryKeywords := keywords(query)
	if len(queryKeywords) == 0 {
		return "", false
	}

	bestKey := ""
	bestScore := 0.0
	for key, indexed := range c.queryIndex {
		if key == selfKey {
			continue
		}
		score := jaccard(queryKeywords, indexed)
		if score >= c.similarityThreshold && score > bestScore {
			bestKey, bestScore = key, score
		}
	}
	if bestKey == "" {
		return "", false
	}

	e, ok := c.memory[bestKey]
	if !ok {
		e, ok = c.loadEntry(bestKey)
	}
	if !ok || !c.fresh(e) {
		c.evict(bestKey)
		return "", false
	}

	logger.Debug("answer cache: fuzzy hit (%.2f) on %q", bestScore, e.QueryPreview)

	// Promote under the incoming query's key so the same rephrasing
	// hits the exact tiers next time. The promotion is persisted
	// before it is indexed: the fuzzy index must only point at
	// entries that survive a memory trim.
	promoted := e
	promoted.QueryPreview = preview(normalizeQuery(query))
	c.remember(selfKey, promoted)
	if err := c.writeEntry(selfKey, promoted); err != nil {
		logger.Warn("answer cache: disk write failed: %v", err)
	} else {
		c.queryIndex[selfKey] = queryKeywords
	}
	return e.Answer, true
}

// remember inserts into the memory tier, trimming the oldest fifth
// when the cap is hit.
func (c *Cache) remember(key string, e entry) {
	c.memory[key] = e
	if len(c.memory) <= c.maxMemoryEntries {
		return
	}

	trim := c.maxMemoryEntries / 5
	if trim < 1 {
		trim = 1
	}
	for i := 0; i < trim; i++ {
		oldestKey := ""
		var oldest time.Time
		for k, v := range c.memory {
			if oldestKey == "" || v.Timestamp.Before(oldest) {
				oldestKey, oldest = k, v.Timestamp
			}
		}
		delete(c.memory, oldestKey)
	}
}

// evict drops an entry from every tier.
func (c *Cache) evict(key string) {
	delete(c.memory, key)
	delete(c.queryIndex, key)
	_ = os.Remove(c.entryPath(key))
}

func (c *Cache) fresh(e entry) bool {
	return time.Since(e.Timestamp) < c.ttl
}

func (c *Cache) cacheable(answer string) bool {
	if len(strings.TrimSpace(answer)) < c.minAnswerLength {
		return false
	}
	lower := strings.ToLower(answer)
	if strings.Contains(lower, searchToolTag) {
		return false
	}
	for _, marker := range transcriptMarkers {
		if strings.HasPrefix(lower, marker) || strings.Contains(lower, "\n"+marker) {
			return false
		}
	}
	return true
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) loadEntry(key string) (entry, bool) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt file, drop it.
		_ = os.Remove(c.entryPath(key))
		return entry{}, false
	}
	return e, true
}

func (c *Cache) writeEntry(key string, e entry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(key), data, 0600)
}

func (c *Cache) diskKeys() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, de := range entries {
		name := de.Name()
		if filepath.Ext(name) != ".json" || name == statsFile {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys
}

// saveStats persists the counters best effort; a failed write never
// surfaces. Caller must hold the lock.
func (c *Cache) saveStats() {
	data, err := json.MarshalIndent(c.stats, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(c.dir, statsFile), data, 0600)
}

// loadStats restores persisted counters if present.
func (c *Cache) loadStats() {
	data, err := os.ReadFile(filepath.Join(c.dir, statsFile))
	if err != nil {
		return
	}
	var stats domain.CacheStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return
	}
	c.stats = stats
}

// loadIndex seeds the fuzzy index from the disk tier.
func (c *Cache) loadIndex() {
	for _, key := range c.diskKeys() {
		e, ok := c.loadEntry(key)
		if !ok {
			continue
		}
		if !c.fresh(e) {
			c.evict(key)
			continue
		}
		c.queryIndex[key] = keywords(e.QueryPreview)
	}
	if len(c.queryIndex) > 0 {
		logger.Debug("answer cache: indexed %d disk entries", len(c.queryIndex))
	}
}

// cacheKey derives the stable key for a query in a context. Both
// halves are normalised so trivial reformattings share a key.
func cacheKey(query, context string) string {
	sum := md5.Sum([]byte(normalizeQuery(query) + "|" + normalizeQuery(context)))
	return hex.EncodeToString(sum[:])
}

// normalizeQuery lowercases and collapses whitespace so trivial
// reformattings share a key.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// preview truncates on a rune boundary so the stored value stays
// valid UTF-8.
func preview(normalized string) string {
	if len(normalized) <= previewLen {
		return normalized
	}
	cut := previewLen
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut]
}

// jaccard computes set overlap over union.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
