package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ctxcore/ctxcore/internal/chunk"
	"github.com/ctxcore/ctxcore/internal/store"
	"github.com/ctxcore/ctxcore/internal/symbols"
	"github.com/ctxcore/ctxcore/internal/tokens"
)

// UpdateResult summarizes one IncrementalIndexer run.
type UpdateResult struct {
	New              int
	Modified         int
	Unchanged        int
	Deleted          int
	IndexingFailures int
	DeletionFailures int
	StartedAt        time.Time
	CompletedAt      time.Time
	Duration         time.Duration
}

// Indexer drives chunking, structural extraction, and persistence for a set
// of files, following the teacher's indexer/processor separation but
// collapsed into one type since SPEC_FULL's ingestion pipeline has no
// equivalent of the teacher's dual-storage (vector + graph) fan-out.
type Indexer struct {
	rootDir       string
	store         *store.Store
	chunks        *chunk.Registry
	symbolsReg    *symbols.Registry
	estimator     *tokens.Estimator
	embedder      Embedder
	allowExt      map[string]bool
	blockExt      map[string]bool
}

// Embedder produces a chunk's embedding vector. A nil Embedder means chunks
// are persisted without embeddings (full_text/symbol providers still work;
// semantic retrieval degrades to zero contributions).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
	Dimensions() int
}

// Config configures an Indexer's scope. Empty AllowExt means "allow
// everything not explicitly blocked".
type Config struct {
	RootDir  string
	AllowExt []string
	BlockExt []string
}

// New builds an Indexer wired to st for persistence. embedder may be nil.
func New(cfg Config, st *store.Store, chunks *chunk.Registry, symbolsReg *symbols.Registry, estimator *tokens.Estimator, embedder Embedder) *Indexer {
	idx := &Indexer{
		rootDir:    cfg.RootDir,
		store:      st,
		chunks:     chunks,
		symbolsReg: symbolsReg,
		estimator:  estimator,
		embedder:   embedder,
		allowExt:   toExtSet(cfg.AllowExt),
		blockExt:   toExtSet(cfg.BlockExt),
	}
	return idx
}

func toExtSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return set
}

// Update classifies and re-indexes absPaths, optionally soft-deleting
// active records outside that set.
func (idx *Indexer) Update(ctx context.Context, absPaths []string, detectImplicitDeletions bool) (*UpdateResult, error) {
	result := &UpdateResult{StartedAt: time.Now()}

	inScope := make(map[string]bool, len(absPaths))
	for _, abs := range absPaths {
		select {
		case <-ctx.Done():
			result.CompletedAt = time.Now()
			result.Duration = result.CompletedAt.Sub(result.StartedAt)
			return result, ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(idx.rootDir, abs)
		if err != nil {
			result.IndexingFailures++
			idx.logFailure(abs, err)
			continue
		}
		relPath = filepath.ToSlash(relPath)
		inScope[relPath] = true

		if !idx.inExtensionScope(abs) {
			continue
		}

		status, err := idx.indexOne(abs, relPath)
		if err != nil {
			result.IndexingFailures++
			idx.logFailure(abs, err)
			continue
		}
		switch status {
		case statusNew:
			result.New++
		case statusModified:
			result.Modified++
		case statusUnchanged:
			result.Unchanged++
		}
	}

	if detectImplicitDeletions {
		deleted, failures := idx.pruneAbsent(inScope)
		result.Deleted += deleted
		result.DeletionFailures += failures
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)
	return result, nil
}

type fileStatus int

const (
	statusUnchanged fileStatus = iota
	statusNew
	statusModified
)

func (idx *Indexer) indexOne(absPath, relPath string) (fileStatus, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return statusUnchanged, fmt.Errorf("read %s: %w", relPath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return statusUnchanged, fmt.Errorf("stat %s: %w", relPath, err)
	}

	contentHash := hashBytes(raw)

	existing, err := idx.store.FetchFileArtifacts(relPath)
	if err != nil {
		return statusUnchanged, fmt.Errorf("fetch existing %s: %w", relPath, err)
	}
	status := statusNew
	if existing != nil {
		if existing.File.ContentHash == contentHash {
			return statusUnchanged, nil
		}
		status = statusModified
	}

	content := toValidUTF8(raw)
	language := languageForExtension(relPath)

	chunks, err := idx.chunks.Chunk(string(content), relPath, language)
	if err != nil {
		return statusUnchanged, fmt.Errorf("chunk %s: %w", relPath, err)
	}

	inputs := make([]store.ChunkInput, 0, len(chunks))
	for _, c := range chunks {
		input := store.ChunkInput{
			Ordinal:       c.Ordinal,
			Kind:          string(c.Kind),
			StartLine:     c.StartLine,
			EndLine:       c.EndLine,
			TokenEstimate: c.TokenEstimate,
			Content:       c.Content,
			Summary:       c.Summary,
		}
		if idx.embedder != nil {
			vec, err := idx.embedder.Embed(context.Background(), c.Content)
			if err == nil {
				input.Embedding = &store.EmbeddingInput{
					Model:      idx.embedder.Model(),
					Dimensions: idx.embedder.Dimensions(),
					Vector:     vec,
				}
			}
		}
		inputs = append(inputs, input)
	}

	rec := store.FileRecord{
		RelativePath:   relPath,
		AbsolutePath:   absPath,
		ContentHash:    contentHash,
		SizeBytes:      info.Size(),
		ModifiedTimeNs: info.ModTime().UnixNano(),
		Language:       language,
		Kind:           "source",
	}
	if _, err := idx.store.ReplaceFileArtifacts(rec, inputs); err != nil {
		return statusUnchanged, fmt.Errorf("persist %s: %w", relPath, err)
	}

	if idx.symbolsReg != nil {
		fs, err := idx.symbolsReg.Extract(content, relPath)
		if err == nil {
			_ = idx.store.ReplaceFileSymbols(relPath, fs)
		}
	}

	return status, nil
}

// pruneAbsent soft-deletes every active file not present in inScope,
// implementing step 5 of the IncrementalIndexer algorithm.
func (idx *Indexer) pruneAbsent(inScope map[string]bool) (deleted, failures int) {
	active, err := idx.store.ListActiveFiles()
	if err != nil {
		return 0, 0
	}
	for _, f := range active {
		if inScope[f.RelativePath] {
			continue
		}
		if err := idx.store.MarkFileDeleted(f.RelativePath); err != nil {
			failures++
			continue
		}
		deleted++
	}
	return deleted, failures
}

func (idx *Indexer) inExtensionScope(absPath string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(absPath), "."))
	if idx.blockExt[ext] {
		return false
	}
	if idx.allowExt != nil && !idx.allowExt[ext] {
		return false
	}
	return true
}

func (idx *Indexer) logFailure(absPath string, cause error) {
	_ = idx.store.LogBootstrapError(absPath, cause)
}

// toValidUTF8 replaces invalid byte sequences with the Unicode replacement
// character, matching the "decode UTF-8, replace invalid sequences" step.
func toValidUTF8(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	return []byte(strings.ToValidUTF8(string(raw), "�"))
}
