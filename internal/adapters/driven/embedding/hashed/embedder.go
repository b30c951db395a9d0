// Package hashed provides a deterministic local embedding service.
//
// Texts are embedded by hashing word unigrams and bigrams into a
// fixed-width vector, which is then L2 normalised. The result is not
// a learned semantic space, but it is stable across processes and
// platforms, needs no model download, and preserves enough lexical
// similarity for the vector leg of hybrid retrieval. The embedding
// model is swappable behind the EmbeddingService port.
package hashed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// DefaultDimensions is the default embedding width.
const DefaultDimensions = 384

// ModelName identifies the embedding scheme. It participates in the
// index fingerprint, so changing the hashing scheme must change this
// string.
const ModelName = "hashed-fnv-v1"

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// Embedder is a deterministic feature-hashing embedder.
type Embedder struct {
	dimensions int
}

// Option configures the embedder.
type Option func(*Embedder)

// WithDimensions sets the embedding width.
func WithDimensions(dims int) Option {
	return func(e *Embedder) {
		if dims > 0 {
			e.dimensions = dims
		}
	}
}

// New creates a hashed embedder.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns the embedding for a single text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embed: empty text")
	}
	return e.embed(text), nil
}

// EmbedBatch returns embeddings for multiple texts in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed batch item %d: %w", i, err)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

// Dimensions returns the embedding width.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the embedding scheme identifier.
func (e *Embedder) ModelName() string {
	return ModelName
}

func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.dimensions)
	tokens := tokenize(text)

	for i, tok := range tokens {
		e.addFeature(vec, tok, 1.0)
		if i > 0 {
			// Bigrams capture short phrases like "sick leave".
			e.addFeature(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}

	normalize(vec)
	return vec
}

// addFeature hashes a feature into a dimension with a hash-derived
// sign, the usual feature-hashing trick to keep collisions unbiased.
func (e *Embedder) addFeature(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dimensions))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
