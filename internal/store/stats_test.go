package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsCountsActiveFilesChunksEmbeddings(t *testing.T) {
	s, err := Open(":memory:", 4)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReplaceFileArtifacts(FileRecord{
		RelativePath: "a.go", AbsolutePath: "/root/a.go", ContentHash: "h1", SizeBytes: 100,
	}, []ChunkInput{
		{Kind: "code_function", TokenEstimate: 10, Content: "func A() {}", Embedding: &EmbeddingInput{Model: "fake", Dimensions: 4, Vector: []float32{1, 2, 3, 4}}},
	})
	require.NoError(t, err)

	_, err = s.ReplaceFileArtifacts(FileRecord{
		RelativePath: "b.go", AbsolutePath: "/root/b.go", ContentHash: "h2", SizeBytes: 50,
	}, []ChunkInput{
		{Kind: "code_function", TokenEstimate: 5, Content: "func B() {}"},
	})
	require.NoError(t, err)

	totals, err := s.Totals()
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Files)
	assert.Equal(t, 2, totals.Chunks)
	assert.Equal(t, 1, totals.Embeddings)
	assert.Equal(t, int64(150), totals.Bytes)
}

func TestTotalsExcludesDeletedFiles(t *testing.T) {
	s, err := Open(":memory:", 4)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReplaceFileArtifacts(FileRecord{
		RelativePath: "a.go", AbsolutePath: "/root/a.go", ContentHash: "h1", SizeBytes: 100,
	}, []ChunkInput{{Kind: "code_function", TokenEstimate: 10, Content: "func A() {}"}})
	require.NoError(t, err)

	_, err = s.DeleteFileArtifacts("a.go")
	require.NoError(t, err)

	totals, err := s.Totals()
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Files)
	assert.Equal(t, 0, totals.Chunks)
}

func TestLanguageDistributionGroupsByLanguage(t *testing.T) {
	s, err := Open(":memory:", 4)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReplaceFileArtifacts(FileRecord{
		RelativePath: "a.go", AbsolutePath: "/root/a.go", ContentHash: "h1", Language: "go",
	}, []ChunkInput{{Kind: "code_function", TokenEstimate: 1, Content: "x"}})
	require.NoError(t, err)

	_, err = s.ReplaceFileArtifacts(FileRecord{
		RelativePath: "b.go", AbsolutePath: "/root/b.go", ContentHash: "h2", Language: "go",
	}, []ChunkInput{{Kind: "code_function", TokenEstimate: 1, Content: "y"}})
	require.NoError(t, err)

	_, err = s.ReplaceFileArtifacts(FileRecord{
		RelativePath: "c.py", AbsolutePath: "/root/c.py", ContentHash: "h3", Language: "python",
	}, []ChunkInput{{Kind: "code_function", TokenEstimate: 1, Content: "z"}})
	require.NoError(t, err)

	dist, err := s.LanguageDistribution()
	require.NoError(t, err)
	require.Len(t, dist, 2)
	assert.Equal(t, "go", dist[0].Language)
	assert.Equal(t, 2, dist[0].Files)
	assert.Equal(t, "python", dist[1].Language)
	assert.Equal(t, 1, dist[1].Files)
}
