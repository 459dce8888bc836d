package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/store"
)

func TestSemanticRanksByCosineSimilarity(t *testing.T) {
	st := newTestStore(t, 3)

	mustReplaceFile(t, st, "near.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func near() {}", TokenEstimate: 4,
		Embedding: &store.EmbeddingInput{Model: "test-model", Dimensions: 3, Vector: []float32{1, 0, 0}},
	}})
	mustReplaceFile(t, st, "far.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func far() {}", TokenEstimate: 4,
		Embedding: &store.EmbeddingInput{Model: "test-model", Dimensions: 3, Vector: []float32{-1, 0, 0}},
	}})

	sem := NewSemantic(st, &fakeEmbedder{
		model:   "test-model",
		vectors: map[string][]float32{"default": {1, 0, 0}},
	})

	results, err := sem.Search(context.Background(), Params{Query: "near", K: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "near.go", results[0].FilePath)
	assert.Greater(t, results[0].Score, 0.5)
}

func TestSemanticRespectsLanguageScope(t *testing.T) {
	st := newTestStore(t, 3)
	mustReplaceFile(t, st, "a.go", []store.ChunkInput{{
		Ordinal: 0, Kind: "CODE_FUNCTION", Content: "func a() {}", TokenEstimate: 4,
		Embedding: &store.EmbeddingInput{Model: "m", Dimensions: 3, Vector: []float32{1, 0, 0}},
	}})

	sem := NewSemantic(st, &fakeEmbedder{model: "m", vectors: map[string][]float32{"default": {1, 0, 0}}})

	results, err := sem.Search(context.Background(), Params{Query: "x", K: 5, Languages: []string{"python"}})
	require.NoError(t, err)
	assert.Empty(t, results)
}
