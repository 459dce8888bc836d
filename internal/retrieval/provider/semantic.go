package provider

import (
	"context"
	"fmt"

	"github.com/ctxcore/ctxcore/internal/store"
)

// Embedder turns query text into a vector in the same space the indexer
// embedded chunks into. Generalizes the teacher's embed.Provider interface
// down to the single-text query path this provider needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Semantic is the semantic RetrievalProvider: embeds the query and ranks
// chunks by cosine distance over the vec0 KNN index.
type Semantic struct {
	store    *store.Store
	embedder Embedder
}

// NewSemantic builds a semantic provider. embedder must be non-nil; callers
// that run without an embedding model configured simply omit this provider
// from the enabled set, per spec's provider-off semantics.
func NewSemantic(st *store.Store, embedder Embedder) *Semantic {
	return &Semantic{store: st, embedder: embedder}
}

func (s *Semantic) ID() string { return "semantic" }

func (s *Semantic) Search(ctx context.Context, params Params) ([]Candidate, error) {
	vec, err := s.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	k := params.K
	if k <= 0 {
		k = 10
	}

	hits, err := s.store.QuerySimilar(vec, s.embedder.Model(), k*4)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	out := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		cf, err := s.store.ChunkByID(h.ChunkID)
		if err != nil || cf == nil {
			continue
		}
		if !matchesScope(cf.File.RelativePath, cf.File.Language, cf.Chunk.Kind, params) {
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
			Score:      cosineSimilarityFromDistance(h.Distance),
		})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// cosineSimilarityFromDistance converts sqlite-vec's cosine distance
// (0 = identical, 2 = opposite) into a [0,1] similarity score so every
// provider's raw scores share the same direction (higher is better).
func cosineSimilarityFromDistance(distance float64) float64 {
	sim := 1 - distance/2
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
