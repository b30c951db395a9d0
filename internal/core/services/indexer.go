package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/hrdesk-cli/internal/chunker"
	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
	"github.com/custodia-labs/hrdesk-cli/internal/sanitize"
)

// indexTTL bounds reuse of a persisted generation. Stamps catch file
// edits, but not every corpus change is visible through them (a synced
// directory can preserve mtimes), so old generations rebuild anyway.
const indexTTL = 24 * time.Hour

// fingerprintLen truncates the hex digest. 16 hex chars keep
// collection names short while leaving collisions implausible for the
// corpus sizes involved.
const fingerprintLen = 16

// Indexer owns the index generation lifecycle: fingerprinting the
// corpus, deciding between reuse and rebuild, and running the
// normalise/chunk/embed pipeline on a rebuild.
type Indexer struct {
	corpus   driven.CorpusSource
	store    driven.IndexStore
	vectors  driven.VectorIndex
	chunker  *chunker.Chunker
	settings domain.Settings
}

// NewIndexer creates an indexer over the given collaborators.
func NewIndexer(corpus driven.CorpusSource, store driven.IndexStore, vectors driven.VectorIndex, ck *chunker.Chunker, settings domain.Settings) *Indexer {
	return &Indexer{
		corpus:   corpus,
		store:    store,
		vectors:  vectors,
		chunker:  ck,
		settings: settings,
	}
}

// Fingerprint computes the current corpus fingerprint: a digest over
// the sorted file stamps plus everything that changes chunk content or
// numbering (chunk size, overlap, sanitiser revision). Sorting makes
// it independent of directory iteration order. A configured version
// tag replaces the stamps entirely.
func (ix *Indexer) Fingerprint(ctx context.Context) (string, error) {
	h := sha256.New()

	if ix.settings.VersionTag != "" {
		fmt.Fprintf(h, "version:%s\n", ix.settings.VersionTag)
	} else {
		stamps, err := ix.corpus.Stamps(ctx)
		if err != nil {
			return "", fmt.Errorf("stamp corpus: %w", err)
		}
		lines := make([]string, 0, len(stamps))
		for _, stamp := range stamps {
			lines = append(lines, stamp.Name+"|"+stamp.ModTime.UTC().Format(time.RFC3339Nano))
		}
		sort.Strings(lines)
		for _, line := range lines {
			fmt.Fprintf(h, "%s\n", line)
		}
	}

	fmt.Fprintf(h, "chunk:%d|%d\n", ix.settings.ChunkSize, ix.settings.ChunkOverlap)
	fmt.Fprintf(h, "sanitize:%s\n", sanitize.Version)

	return hex.EncodeToString(h.Sum(nil))[:fingerprintLen], nil
}

// Ensure returns a generation matching the current fingerprint,
// loading the persisted one when it is fresh and rebuilding otherwise.
// Stale, mismatched, or corrupt persisted state always means rebuild,
// never a hard failure; force skips the load entirely.
func (ix *Indexer) Ensure(ctx context.Context, force bool) (*driven.Generation, error) {
	fingerprint, err := ix.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	if !force {
		gen, err := ix.store.LoadGeneration(ctx, fingerprint)
		switch {
		case err == nil:
			if time.Since(gen.BuiltAt) <= indexTTL && ix.vectors.Has(ctx, fingerprint) {
				logger.Debug("indexer: reusing generation %s (%d chunks)", fingerprint, len(gen.Chunks))
				return gen, nil
			}
			logger.Info("indexer: generation %s stale, rebuilding", fingerprint)
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrFingerprintMismatch),
			errors.Is(err, domain.ErrIndexCorrupt):
			logger.Debug("indexer: no reusable generation: %v", err)
		default:
			return nil, fmt.Errorf("load generation: %w", err)
		}
	}

	return ix.rebuild(ctx, fingerprint)
}

func (ix *Indexer) rebuild(ctx context.Context, fingerprint string) (*driven.Generation, error) {
	start := time.Now()

	docs, err := ix.corpus.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", ix.settings.DataDir, domain.ErrEmptyCorpus)
	}

	chunks := ix.chunker.Split(docs)
	logger.Debug("indexer: %d documents split into %d chunks", len(docs), len(chunks))

	if err := ix.vectors.Add(ctx, fingerprint, chunks); err != nil {
		return nil, fmt.Errorf("index vectors: %w", err)
	}

	gen := driven.Generation{
		Fingerprint: fingerprint,
		BuiltAt:     time.Now().UTC(),
		Chunks:      chunks,
	}
	if err := ix.store.SaveGeneration(ctx, gen); err != nil {
		return nil, fmt.Errorf("save generation: %w", err)
	}

	// Stale generations and their cached results are dead weight once
	// the new generation is durable. Cleanup failures are not fatal.
	if err := ix.vectors.Drop(ctx, fingerprint); err != nil {
		logger.Warn("indexer: dropping stale collections: %v", err)
	}
	if err := ix.store.PurgeResults(ctx, fingerprint); err != nil {
		logger.Warn("indexer: purging stale results: %v", err)
	}

	logger.Info("indexer: built generation %s (%d documents, %d chunks) in %s",
		fingerprint, len(docs), len(chunks), time.Since(start).Round(time.Millisecond))
	return &gen, nil
}
