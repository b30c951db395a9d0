// Package bm25 provides an in-memory Okapi BM25 lexical index over
// the chunked corpus.
//
// The index is rebuilt from the stored chunk set on startup, which is
// cheap at HR-corpus scale and keeps the on-disk format down to the
// chunks themselves. Tokenisation is lowercase whitespace splitting,
// matching how queries are tokenised elsewhere in the pipeline.
package bm25

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// Okapi BM25 parameters, standard values.
const (
	k1 = 1.5
	b  = 0.75
)

// Ensure Index implements the interface.
var _ driven.LexicalIndex = (*Index)(nil)

// Index is an in-memory BM25 index. It is immutable after
// construction and safe for concurrent reads.
type Index struct {
	docLens   []int
	avgDocLen float64
	// termFreqs[i] maps token to count within chunk i. Chunk IDs are
	// dense and zero based, so the slice position is the chunk ID.
	termFreqs []map[string]int
	docFreqs  map[string]int
}

// New builds an index over the given chunks. Chunks must carry dense
// zero-based IDs in slice order.
func New(chunks []domain.Chunk) *Index {
	idx := &Index{
		docLens:   make([]int, len(chunks)),
		termFreqs: make([]map[string]int, len(chunks)),
		docFreqs:  make(map[string]int),
	}

	var totalLen int
	for i, chunk := range chunks {
		tokens := Tokenize(chunk.Content)
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)

		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		idx.termFreqs[i] = freqs

		for tok := range freqs {
			idx.docFreqs[tok]++
		}
	}

	if len(chunks) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(chunks))
	}

	return idx
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.docLens)
}

// Scores returns the raw BM25 score of every chunk for the query,
// indexed by chunk ID. Chunks sharing no token with the query score
// zero.
func (idx *Index) Scores(_ context.Context, query string) ([]float64, error) {
	scores := make([]float64, len(idx.docLens))
	if len(idx.docLens) == 0 {
		return scores, nil
	}

	n := float64(len(idx.docLens))
	for _, tok := range Tokenize(query) {
		df, ok := idx.docFreqs[tok]
		if !ok {
			continue
		}

		idf := math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
		for i, freqs := range idx.termFreqs {
			tf := float64(freqs[tok])
			if tf == 0 {
				continue
			}
			norm := 1 - b + b*float64(idx.docLens[i])/idx.avgDocLen
			scores[i] += idf * tf * (k1 + 1) / (tf + k1*norm)
		}
	}

	return scores, nil
}

// Search returns the top chunks for the query in descending score
// order. Zero-scoring chunks are excluded; ties break on chunk ID so
// results are deterministic.
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	scores, err := idx.Scores(ctx, query)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.SearchHit, 0, limit)
	for chunkID, score := range scores {
		if score > 0 {
			hits = append(hits, driven.SearchHit{ChunkID: chunkID, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Tokenize lowercases text and splits on whitespace. Exported so the
// retrieval pipeline counts per-token hits the same way the index
// matches them.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
