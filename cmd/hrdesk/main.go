// Command hrdesk is the HR policy document assistant. It wires the
// adapters to the core services and hands control to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/cache/semantic"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/embedding/hashed"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/lexical/bm25"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/rerank/crossencoder"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/hrdesk-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/hrdesk-cli/internal/chunker"
	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/core/services"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
	"github.com/custodia-labs/hrdesk-cli/internal/normalisers/docx"
	"github.com/custodia-labs/hrdesk-cli/internal/normalisers/plaintext"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settings, notes := file.LoadSettings(configStore).Normalise()
	for _, note := range notes {
		logger.Warn("config: %s out of range, using default", note)
	}

	embedder := hashed.New(hashed.WithDimensions(settings.EmbeddingDimensions))

	vectors, err := chromem.New(settings.IndexDir, embedder)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer vectors.Close() //nolint:errcheck // Best-effort close on shutdown.

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}
	defer store.Close() //nolint:errcheck // Best-effort close on shutdown.

	corpus := filesystem.New(settings.DataDir, docx.New(), plaintext.New())
	ck := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)
	indexer := services.NewIndexer(corpus, store, vectors, ck, settings)

	var reranker driven.Reranker
	if settings.RerankEnabled && settings.RerankerURL != "" {
		reranker = crossencoder.New(crossencoder.Config{
			BaseURL: settings.RerankerURL,
			Model:   settings.RerankerModel,
		})
	}

	newLexical := func(chunks []domain.Chunk) driven.LexicalIndex {
		return bm25.New(chunks)
	}

	retriever := services.NewRetriever(indexer, vectors, store, reranker, newLexical, settings)

	var answers driven.AnswerCache
	if settings.CacheEnabled {
		cache, err := semantic.New(settings.CacheDir,
			semantic.WithTTL(settings.AnswerCacheTTL),
			semantic.WithMaxMemoryEntries(settings.MaxMemoryEntries),
			semantic.WithSimilarityThreshold(settings.SimilarityThreshold),
			semantic.WithMinAnswerLength(settings.MinAnswerLength),
		)
		if err != nil {
			// A broken answer cache degrades to uncached operation.
			logger.Warn("answer cache unavailable: %v", err)
		} else {
			answers = cache
		}
	}

	cli.Configure(cli.Services{
		Retriever: retriever,
		Answers:   answers,
		Settings:  settings,
	}, version)

	return cli.Execute()
}
