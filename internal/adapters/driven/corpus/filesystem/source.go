// Package filesystem loads the policy corpus from a directory tree.
//
// Files are matched by extension against the registered normalisers,
// extracted to plain text, and sanitised before they reach the
// chunker. Unreadable or empty files are skipped with a warning so a
// single bad document never blocks an index build.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
	"github.com/custodia-labs/hrdesk-cli/internal/sanitize"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source reads policy documents from a directory.
type Source struct {
	dir         string
	normalisers map[string]driven.Normaliser
}

// New creates a filesystem corpus source rooted at dir. Later
// normalisers win extension conflicts.
func New(dir string, normalisers ...driven.Normaliser) *Source {
	byExt := make(map[string]driven.Normaliser)
	for _, n := range normalisers {
		for _, ext := range n.Extensions() {
			byExt[strings.ToLower(ext)] = n
		}
	}
	return &Source{dir: dir, normalisers: byExt}
}

// Load reads, extracts, and sanitises every supported document under
// the corpus directory. Documents come back sorted by file name so
// chunk IDs are stable for an unchanged corpus.
func (s *Source) Load(ctx context.Context) ([]domain.Document, error) {
	paths, err := s.matchingFiles()
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("corpus: skipping unreadable file %s: %v", name, err)
			continue
		}

		normaliser := s.normalisers[strings.ToLower(filepath.Ext(path))]
		text, err := normaliser.Normalise(ctx, raw)
		if err != nil {
			logger.Warn("corpus: skipping %s: %v", name, err)
			continue
		}

		text = sanitize.Text(text)
		if strings.TrimSpace(text) == "" {
			logger.Warn("corpus: skipping empty document %s", name)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("corpus: skipping %s: %v", name, err)
			continue
		}

		docs = append(docs, domain.Document{
			ID:      uuid.New().String(),
			Source:  name,
			URI:     path,
			Content: text,
			ModTime: info.ModTime(),
		})
	}

	logger.Info("corpus: loaded %d documents from %s", len(docs), s.dir)
	return docs, nil
}

// Stamps returns the (name, mtime) pairs of every supported file,
// sorted by name. This is the input to the index fingerprint and must
// be cheap, so files are statted but never read.
func (s *Source) Stamps(_ context.Context) ([]domain.FileStamp, error) {
	paths, err := s.matchingFiles()
	if err != nil {
		return nil, err
	}

	stamps := make([]domain.FileStamp, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stamps = append(stamps, domain.FileStamp{
			Name:    filepath.Base(path),
			ModTime: info.ModTime(),
		})
	}
	return stamps, nil
}

// matchingFiles walks the corpus directory and returns the sorted
// paths of supported files. Hidden files and Word lock files (~$) are
// skipped.
func (s *Source) matchingFiles() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != s.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}
		if _, ok := s.normalisers[strings.ToLower(filepath.Ext(name))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus dir %s: %w", s.dir, err)
	}

	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
	return paths, nil
}
