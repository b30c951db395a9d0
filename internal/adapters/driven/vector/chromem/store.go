// Package chromem provides a persistent vector index backed by
// chromem-go.
//
// Each index generation gets its own collection, named after the
// corpus fingerprint. Searching against a fingerprint with no
// collection reports the index as not ready rather than returning
// empty results, so callers can trigger a rebuild.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
)

const collectionPrefix = "chunks-"

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Store is a chromem-go backed vector index.
type Store struct {
	db       *chromem.DB
	embedder driven.EmbeddingService
}

// New opens or creates a persistent vector store at path.
func New(path string, embedder driven.EmbeddingService) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	return &Store{db: db, embedder: embedder}, nil
}

// embeddingFunc adapts the embedding service to chromem's callback.
func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}
}

func collectionName(fingerprint string) string {
	return collectionPrefix + fingerprint
}

// Add embeds and stores chunks under the generation identified by
// fingerprint. Document IDs are the chunk IDs.
func (s *Store) Add(ctx context.Context, fingerprint string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	collection, err := s.db.GetOrCreateCollection(collectionName(fingerprint), nil, s.embeddingFunc())
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:      strconv.Itoa(chunk.ChunkID),
			Content: chunk.Content,
			Metadata: map[string]string{
				"source": chunk.Source,
			},
		})
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}

	logger.Debug("vector store: added %d chunks for generation %s", len(chunks), fingerprint)
	return nil
}

// Search returns the k nearest chunks for the query within the given
// generation. Results come back in descending similarity order.
func (s *Store) Search(ctx context.Context, fingerprint, query string, k int) ([]driven.VectorHit, error) {
	collection := s.db.GetCollection(collectionName(fingerprint), s.embeddingFunc())
	if collection == nil {
		return nil, fmt.Errorf("generation %s: %w", fingerprint, domain.ErrIndexNotReady)
	}

	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, res := range results {
		chunkID, err := strconv.Atoi(res.ID)
		if err != nil {
			return nil, fmt.Errorf("vector store: bad chunk ID %q: %w", res.ID, domain.ErrIndexCorrupt)
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: float64(res.Similarity),
		})
	}
	return hits, nil
}

// Has reports whether a collection exists for the given generation.
func (s *Store) Has(_ context.Context, fingerprint string) bool {
	_, ok := s.db.ListCollections()[collectionName(fingerprint)]
	return ok
}

// Drop deletes every generation collection except the one identified
// by keepFingerprint. Used after a rebuild to reclaim disk space.
func (s *Store) Drop(_ context.Context, keepFingerprint string) error {
	keep := collectionName(keepFingerprint)
	for name := range s.db.ListCollections() {
		if name == keep || !strings.HasPrefix(name, collectionPrefix) {
			continue
		}
		if err := s.db.DeleteCollection(name); err != nil {
			return fmt.Errorf("delete collection %s: %w", name, err)
		}
		logger.Debug("vector store: dropped stale generation %s", strings.TrimPrefix(name, collectionPrefix))
	}
	return nil
}

// Close releases the store. chromem persists on every write, so there
// is nothing to flush.
func (s *Store) Close() error { return nil }
