package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/ctxcore/ctxcore/internal/store"
)

// FullText is the full_text RetrievalProvider: an in-memory bleve index
// over every active chunk's content, rebuilt on Reload. Distinct from
// internal/store's FTS5 index (chunks_fts), which exists for the store
// package's own keyword lookups; this index is the one the pipeline's
// full_text provider actually queries, matching the teacher's split
// between storage-internal FTS5 and the MCP-facing bleve exact searcher.
type FullText struct {
	store *store.Store
	mu    sync.RWMutex
	index bleve.Index
}

// NewFullText builds a full_text provider and performs an initial Reload.
func NewFullText(st *store.Store) (*FullText, error) {
	ft := &FullText{store: st}
	if err := ft.Reload(context.Background()); err != nil {
		return nil, err
	}
	return ft, nil
}

func (f *FullText) ID() string { return "full_text" }

// Reload rebuilds the bleve index from the store's current active chunks.
// Call after a batch of writes (refresh/rebuild jobs); per-file incremental
// updates are out of scope for this in-memory index given its size.
func (f *FullText) Reload(ctx context.Context) error {
	newIndex, err := bleve.NewMemOnly(buildChunkMapping())
	if err != nil {
		return fmt.Errorf("create bleve index: %w", err)
	}

	chunks, err := f.store.SearchChunks(store.ScopeFilter{})
	if err != nil {
		newIndex.Close()
		return fmt.Errorf("list chunks for indexing: %w", err)
	}

	batch := newIndex.NewBatch()
	for i, cf := range chunks {
		select {
		case <-ctx.Done():
			newIndex.Close()
			return ctx.Err()
		default:
		}
		doc := map[string]interface{}{
			"content":   cf.Chunk.Content,
			"kind":      cf.Chunk.Kind,
			"language":  cf.File.Language,
			"file_path": cf.File.RelativePath,
		}
		if err := batch.Index(cf.Chunk.ChunkID, doc); err != nil {
			newIndex.Close()
			return fmt.Errorf("batch chunk %s: %w", cf.Chunk.ChunkID, err)
		}
		if i%1000 == 999 {
			if err := newIndex.Batch(batch); err != nil {
				newIndex.Close()
				return fmt.Errorf("execute batch: %w", err)
			}
			batch = newIndex.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := newIndex.Batch(batch); err != nil {
			newIndex.Close()
			return fmt.Errorf("execute final batch: %w", err)
		}
	}

	f.mu.Lock()
	old := f.index
	f.index = newIndex
	f.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

func buildChunkMapping() *mapping.IndexMappingImpl {
	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = "standard"
	textMapping.Store = true
	textMapping.IncludeTermVectors = true

	keywordMapping := bleve.NewTextFieldMapping()
	keywordMapping.Analyzer = "keyword"
	keywordMapping.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("content", textMapping)
	doc.AddFieldMappingsAt("kind", keywordMapping)
	doc.AddFieldMappingsAt("language", keywordMapping)
	doc.AddFieldMappingsAt("file_path", keywordMapping)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

func (f *FullText) Search(ctx context.Context, params Params) ([]Candidate, error) {
	f.mu.RLock()
	index := f.index
	f.mu.RUnlock()

	k := params.K
	if k <= 0 {
		k = 10
	}

	q := bleve.NewQueryStringQuery(params.Query)
	req := bleve.NewSearchRequestOptions(q, k*4, 0, false)
	req.Highlight = bleve.NewHighlight()
	req.Highlight.Fields = []string{"content"}
	req.Fields = []string{"file_path", "kind", "language"}

	result, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]Candidate, 0, len(result.Hits))
	for _, hit := range result.Hits {
		filePath, _ := hit.Fields["file_path"].(string)
		kind, _ := hit.Fields["kind"].(string)
		language, _ := hit.Fields["language"].(string)
		if !matchesScope(filePath, language, kind, params) {
			continue
		}

		cf, err := f.store.ChunkByID(hit.ID)
		if err != nil || cf == nil {
			continue
		}

		out = append(out, Candidate{
			ChunkID:    cf.Chunk.ChunkID,
			FilePath:   cf.File.RelativePath,
			Kind:       cf.Chunk.Kind,
			Language:   cf.File.Language,
			Content:    cf.Chunk.Content,
			StartLine:  cf.Chunk.StartLine,
			EndLine:    cf.Chunk.EndLine,
			TokenCount: cf.Chunk.TokenEstimate,
			Score:      hit.Score,
			Highlight:  firstFragment(hit.Fragments["content"]),
		})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

func firstFragment(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	return fragments[0]
}
