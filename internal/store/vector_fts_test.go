package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySimilarOrdersByDistance(t *testing.T) {
	s := newTestStore(t, 3)

	_, err := s.ReplaceFileArtifacts(testFileRecord("a.go"), []ChunkInput{
		{Ordinal: 0, Kind: "function", TokenEstimate: 10, Content: "near", Embedding: &EmbeddingInput{Model: "m", Dimensions: 3, Vector: []float32{1, 0, 0}}},
	})
	require.NoError(t, err)
	_, err = s.ReplaceFileArtifacts(testFileRecord("b.go"), []ChunkInput{
		{Ordinal: 0, Kind: "function", TokenEstimate: 10, Content: "far", Embedding: &EmbeddingInput{Model: "m", Dimensions: 3, Vector: []float32{-1, 0, 0}}},
	})
	require.NoError(t, err)

	hits, err := s.QuerySimilar([]float32{1, 0, 0}, "m", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	a, errA := s.FetchFileArtifacts("a.go")
	require.NoError(t, errA)
	assert.Equal(t, a.Chunks[0].ChunkID, hits[0].ChunkID)
}

func TestQueryFTSMatchesIndexedContent(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("a.go"), []ChunkInput{
		{Ordinal: 0, Kind: "function", TokenEstimate: 10, Content: "func ParseConfig loads settings"},
	})
	require.NoError(t, err)

	hits, err := s.QueryFTS("ParseConfig", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Snippet, "ParseConfig")
}

func TestQueryFTSEmptyQueryReturnsNoHits(t *testing.T) {
	s := newTestStore(t, 4)
	hits, err := s.QueryFTS("   ", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEscapeFTSQueryQuotesTerms(t *testing.T) {
	assert.Equal(t, `"foo" "bar"`, escapeFTSQuery("foo bar"))
	assert.Equal(t, "", escapeFTSQuery("   "))
}
