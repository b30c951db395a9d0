package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
)

// Retrieval tuning. rrfK is the standard reciprocal rank fusion
// damping constant; the boost weights rescale fused candidates with
// lexical and filename evidence.
const (
	rrfK               = 60
	lexicalBoost       = 0.1
	tokenHitBoost      = 0.05
	filenameBoost      = 0.5
	highlightSentences = 2
	minKeywordLen      = 4
	overlapThreshold   = 0.25
)

// NoRelevantDocuments is the sentinel emitted by SearchFormatted when
// nothing in the corpus clears the confidence gate. The agent boundary
// matches on it verbatim.
const NoRelevantDocuments = "NO_RELEVANT_DOCUMENTS"

var wordPattern = regexp.MustCompile(`\w+`)

// Ensure Retriever implements the driving port.
var _ driving.Retriever = (*Retriever)(nil)

// Retriever runs the hybrid search pipeline over the current index
// generation. It is safe for concurrent use; BuildIndex swaps the
// generation atomically under searches.
type Retriever struct {
	indexer    *Indexer
	vectors    driven.VectorIndex
	store      driven.IndexStore
	reranker   driven.Reranker
	newLexical driven.LexicalIndexFactory
	synopses   []Synopsis
	settings   domain.Settings

	mu          sync.RWMutex
	gen         *driven.Generation
	lexical     driven.LexicalIndex
	lastSources []string
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithSynopses replaces the built-in synopsis table.
func WithSynopses(synopses []Synopsis) RetrieverOption {
	return func(r *Retriever) {
		r.synopses = synopses
	}
}

// NewRetriever creates a retriever. reranker may be nil, in which case
// the rerank stage is skipped regardless of settings.
func NewRetriever(indexer *Indexer, vectors driven.VectorIndex, store driven.IndexStore, reranker driven.Reranker, newLexical driven.LexicalIndexFactory, settings domain.Settings, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		indexer:    indexer,
		vectors:    vectors,
		store:      store,
		reranker:   reranker,
		newLexical: newLexical,
		synopses:   DefaultSynopses(),
		settings:   settings,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildIndex builds or loads the index generation and swaps it in.
func (r *Retriever) BuildIndex(ctx context.Context, force bool) error {
	gen, err := r.indexer.Ensure(ctx, force)
	if err != nil {
		return err
	}
	lexical := r.newLexical(gen.Chunks)

	r.mu.Lock()
	r.gen = gen
	r.lexical = lexical
	r.mu.Unlock()
	return nil
}

// Search performs hybrid retrieval: reformulate, consult the result
// cache, gather candidates from both legs, fuse by weighted reciprocal
// rank, rescore with lexical and filename boosts, merge adjacent
// chunks, inject matching synopses, optionally rerank, truncate.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	r.mu.RLock()
	gen, lexical := r.gen, r.lexical
	r.mu.RUnlock()
	if gen == nil {
		return nil, domain.ErrIndexNotReady
	}
	if topK <= 0 {
		topK = r.settings.TopK
	}

	reformulated := Reformulate(query)
	if reformulated != query {
		logger.Debug("retriever: query expanded to %q", reformulated)
	}

	key := r.cacheKey(gen.Fingerprint, reformulated, topK)
	if r.settings.CacheEnabled {
		if cached, err := r.store.GetResults(ctx, key); err == nil {
			logger.Debug("retriever: result cache hit")
			return cached, nil
		}
	}

	results, err := r.retrieve(ctx, gen, lexical, reformulated, topK)
	if err != nil {
		return nil, err
	}

	if r.settings.CacheEnabled {
		if err := r.store.PutResults(ctx, gen.Fingerprint, key, results, r.settings.ResultCacheTTL); err != nil {
			logger.Warn("retriever: result cache write failed: %v", err)
		}
	}
	return results, nil
}

func (r *Retriever) cacheKey(fingerprint, query string, topK int) string {
	rerank := 0
	if r.rerankActive() {
		rerank = 1
	}
	return fmt.Sprintf("ensemble_search:%s:rrf%d|rerank%d|top%d:%s:%d",
		fingerprint, r.settings.PoolMultiplier, rerank, r.settings.TopK, query, topK)
}

func (r *Retriever) rerankActive() bool {
	return r.settings.RerankEnabled && r.reranker != nil
}

func (r *Retriever) retrieve(ctx context.Context, gen *driven.Generation, lexical driven.LexicalIndex, query string, topK int) ([]domain.SearchResult, error) {
	candidateK := topK * r.settings.PoolMultiplier
	if candidateK < topK {
		candidateK = topK
	}

	lexHits, err := lexical.Search(ctx, query, candidateK)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	vecHits, err := r.vectors.Search(ctx, gen.Fingerprint, query, candidateK)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotReady) {
			return nil, err
		}
		// Lexical alone still answers most policy lookups.
		logger.Warn("retriever: vector leg failed, continuing lexical only: %v", err)
		vecHits = nil
	}

	order := fuse(lexHits, vecHits, r.settings.LexicalWeight, r.settings.VectorWeight)
	if len(order) > candidateK {
		order = order[:candidateK]
	}

	rawScores, err := lexical.Scores(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lexical scores: %w", err)
	}
	queryTokens := strings.Fields(strings.ToLower(query))

	preliminary := make([]domain.SearchResult, 0, len(order))
	for rank, chunkID := range order {
		chunk := gen.Chunks[chunkID]
		preliminary = append(preliminary, domain.SearchResult{
			Content: withHighlights(chunk.Content, queryTokens),
			Source:  chunk.Source,
			Score:   compositeScore(rank, chunk, rawScores, queryTokens),
			ChunkID: chunkID,
		})
	}

	results := mergeAdjacent(preliminary, topK)

	if synopsis, ok := matchSynopsis(r.synopses, query); ok {
		logger.Debug("retriever: synopsis injected for %s", synopsis.Source)
		results = append([]domain.SearchResult{synopsis}, results...)
	}

	if r.rerankActive() {
		if reranked, ok := r.rerank(ctx, query, results); ok {
			results = reranked
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// fuse combines both candidate lists by weighted reciprocal rank and
// returns chunk IDs in descending fused order. Ties break on chunk ID
// so the ordering is deterministic.
func fuse(lexHits []driven.SearchHit, vecHits []driven.VectorHit, lexWeight, vecWeight float64) []int {
	fused := make(map[int]float64, len(lexHits)+len(vecHits))
	for rank, hit := range lexHits {
		fused[hit.ChunkID] += lexWeight / float64(rrfK+rank+1)
	}
	for rank, hit := range vecHits {
		fused[hit.ChunkID] += vecWeight / float64(rrfK+rank+1)
	}

	order := make([]int, 0, len(fused))
	for chunkID := range fused {
		order = append(order, chunkID)
	}
	sort.Slice(order, func(i, j int) bool {
		if fused[order[i]] != fused[order[j]] {
			return fused[order[i]] > fused[order[j]]
		}
		return order[i] < order[j]
	})
	return order
}

// compositeScore rescores a fused candidate: reciprocal of its fused
// rank, plus a fraction of the raw BM25 score, a small bonus per query
// token found in the content, and a flat bonus when any token matches
// the source file name.
func compositeScore(rank int, chunk domain.Chunk, rawScores []float64, queryTokens []string) float64 {
	score := 1.0 / float64(rank+1)

	if chunk.ChunkID >= 0 && chunk.ChunkID < len(rawScores) && rawScores[chunk.ChunkID] > 0 {
		score += lexicalBoost * rawScores[chunk.ChunkID]
	}

	contentLower := strings.ToLower(chunk.Content)
	for _, token := range queryTokens {
		if strings.Contains(contentLower, token) {
			score += tokenHitBoost
		}
	}

	sourceLower := strings.ToLower(chunk.Source)
	for _, token := range queryTokens {
		if strings.Contains(sourceLower, token) {
			score += filenameBoost
			break
		}
	}
	return score
}

// withHighlights appends the first sentences mentioning a query token,
// giving the reader the relevant lines without scanning the chunk.
func withHighlights(content string, queryTokens []string) string {
	var picked []string
	for _, sentence := range splitSentences(content) {
		lower := strings.ToLower(sentence)
		for _, token := range queryTokens {
			if strings.Contains(lower, token) {
				picked = append(picked, strings.TrimSpace(sentence))
				break
			}
		}
		if len(picked) == highlightSentences {
			break
		}
	}
	if len(picked) == 0 {
		return content
	}
	return content + "\nHighlights: " + strings.Join(picked, " ")
}

// splitSentences splits on sentence punctuation followed by
// whitespace. The punctuation stays with its sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			j := i + 1
			if j >= len(runes) || !unicode.IsSpace(runes[j]) {
				continue
			}
			out = append(out, string(runes[start:j]))
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// mergeAdjacent joins runs of consecutive chunk IDs from the same
// source into one result carrying the concatenated content, the best
// score of the run, and the run's last chunk ID. Merging can drop the
// result count below topK, so the merged ranking is backfilled from
// the preliminary ordering. The full candidate set is returned; the
// caller truncates after the rerank stage.
func mergeAdjacent(preliminary []domain.SearchResult, topK int) []domain.SearchResult {
	if len(preliminary) == 0 {
		return nil
	}

	byPosition := append([]domain.SearchResult(nil), preliminary...)
	sort.Slice(byPosition, func(i, j int) bool {
		if byPosition[i].Source != byPosition[j].Source {
			return byPosition[i].Source < byPosition[j].Source
		}
		return byPosition[i].ChunkID < byPosition[j].ChunkID
	})

	merged := make([]domain.SearchResult, 0, len(byPosition))
	current := byPosition[0]
	for _, next := range byPosition[1:] {
		if next.Source == current.Source && next.ChunkID == current.ChunkID+1 {
			current.Content += "\n" + next.Content
			if next.Score > current.Score {
				current.Score = next.Score
			}
			current.ChunkID = next.ChunkID
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) < topK {
		type position struct {
			source  string
			chunkID int
		}
		seen := make(map[position]struct{}, len(merged))
		for _, res := range merged {
			seen[position{res.Source, res.ChunkID}] = struct{}{}
		}
		for _, res := range preliminary {
			if len(merged) == topK {
				break
			}
			pos := position{res.Source, res.ChunkID}
			if _, dup := seen[pos]; dup {
				continue
			}
			seen[pos] = struct{}{}
			merged = append(merged, res)
		}
	}
	return merged
}

// rerank rescores the head of the candidate list with the
// cross-encoder and returns it sorted by the new scores. Any failure
// reports ok=false and the caller keeps the fused ordering.
func (r *Retriever) rerank(ctx context.Context, query string, results []domain.SearchResult) ([]domain.SearchResult, bool) {
	pool := r.settings.RerankPoolSize
	if pool > len(results) {
		pool = len(results)
	}
	if pool == 0 {
		return nil, false
	}

	passages := make([]string, pool)
	for i := range passages {
		passages[i] = results[i].Content
	}

	scores, err := r.reranker.Rerank(ctx, query, passages)
	if err != nil || len(scores) != pool {
		logger.Warn("retriever: rerank unavailable, keeping fused ordering: %v", err)
		return nil, false
	}

	reranked := append([]domain.SearchResult(nil), results[:pool]...)
	for i := range reranked {
		reranked[i].Score = scores[i]
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	return reranked, true
}

// SearchFormatted renders results in the fixed textual contract for
// the agent boundary. Low-scoring result sets with weak keyword
// overlap against the top result collapse to NoRelevantDocuments
// rather than feeding the model marginal passages.
func (r *Retriever) SearchFormatted(ctx context.Context, query string, topK int) (string, error) {
	results, err := r.Search(ctx, query, topK)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.lastSources = nil
	r.mu.Unlock()

	if len(results) == 0 {
		return NoRelevantDocuments, nil
	}

	best := results[0].Score
	for _, res := range results[1:] {
		if res.Score > best {
			best = res.Score
		}
	}

	overlapConfident := keywordOverlap(query, results[0].Content) >= overlapThreshold
	if best < r.settings.ConfidenceThreshold && !overlapConfident {
		logger.Debug("retriever: confidence gate rejected results (best %.3f)", best)
		return NoRelevantDocuments, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant results:\n\n", len(results))

	var sources []string
	seen := make(map[string]struct{})
	for i, res := range results {
		fmt.Fprintf(&b, "[%d] (Score: %.3f) %s\n%s\n\n", i+1, res.Score, res.Source, res.Content)

		// Attribute only results the gate considers trustworthy, so a
		// weak tail never pollutes the citation line.
		if res.Score >= r.settings.ConfidenceThreshold || (overlapConfident && i == 0) {
			if _, dup := seen[res.Source]; !dup {
				seen[res.Source] = struct{}{}
				sources = append(sources, res.Source)
			}
		}
	}

	if len(sources) > 0 {
		b.WriteString("Sources: " + strings.Join(sources, " • ") + "\n")
	}

	r.mu.Lock()
	r.lastSources = sources
	r.mu.Unlock()
	return b.String(), nil
}

// keywordOverlap is the fraction of substantive query tokens found in
// the content. Tokens shorter than minKeywordLen are noise words.
func keywordOverlap(query, content string) float64 {
	var tokens []string
	for _, token := range wordPattern.FindAllString(strings.ToLower(query), -1) {
		if len(token) >= minKeywordLen {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return 0
	}

	contentLower := strings.ToLower(content)
	hits := 0
	for _, token := range tokens {
		if strings.Contains(contentLower, token) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// LastSources returns the source names cited by the most recent
// SearchFormatted call.
func (r *Retriever) LastSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.lastSources...)
}
