package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFileRecord(relPath string) FileRecord {
	return FileRecord{
		RelativePath:   relPath,
		AbsolutePath:   "/repo/" + relPath,
		ContentHash:    "abc123",
		SizeBytes:      42,
		ModifiedTimeNs: 1000,
		Language:       "go",
		Kind:           "source",
	}
}

func TestReplaceFileArtifactsInsertsChunksAndEmbeddings(t *testing.T) {
	s := newTestStore(t, 4)

	chunks := []ChunkInput{
		{Ordinal: 0, Kind: "function", StartLine: 1, EndLine: 10, TokenEstimate: 50, Content: "func Foo() {}", Embedding: &EmbeddingInput{Model: "test-model", Dimensions: 4, Vector: []float32{0.1, 0.2, 0.3, 0.4}}},
		{Ordinal: 1, Kind: "function", StartLine: 12, EndLine: 20, TokenEstimate: 30, Content: "func Bar() {}"},
	}

	artifacts, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), chunks)
	require.NoError(t, err)
	require.NotEmpty(t, artifacts.File.FileID)
	require.Len(t, artifacts.Chunks, 2)
	require.Len(t, artifacts.Embeddings, 1)

	fetched, err := s.FetchFileArtifacts("foo.go")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "abc123", fetched.File.ContentHash)
	require.Len(t, fetched.Chunks, 2)
	assert.Equal(t, "func Foo() {}", fetched.Chunks[0].Content)
	require.Len(t, fetched.Embeddings, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, fetched.Embeddings[0].Vector)
}

func TestReplaceFileArtifactsReplacesStaleChunks(t *testing.T) {
	s := newTestStore(t, 4)

	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), []ChunkInput{
		{Ordinal: 0, Kind: "function", TokenEstimate: 10, Content: "v1"},
		{Ordinal: 1, Kind: "function", TokenEstimate: 10, Content: "v1b"},
	})
	require.NoError(t, err)

	_, err = s.ReplaceFileArtifacts(testFileRecord("foo.go"), []ChunkInput{
		{Ordinal: 0, Kind: "function", TokenEstimate: 10, Content: "v2"},
	})
	require.NoError(t, err)

	fetched, err := s.FetchFileArtifacts("foo.go")
	require.NoError(t, err)
	require.Len(t, fetched.Chunks, 1)
	assert.Equal(t, "v2", fetched.Chunks[0].Content)
}

func TestDeleteFileArtifactsCascades(t *testing.T) {
	s := newTestStore(t, 4)

	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), []ChunkInput{
		{Ordinal: 0, Kind: "function", TokenEstimate: 10, Content: "body", Embedding: &EmbeddingInput{Model: "m", Dimensions: 4, Vector: []float32{1, 2, 3, 4}}},
	})
	require.NoError(t, err)

	deleted, err := s.DeleteFileArtifacts("foo.go")
	require.NoError(t, err)
	assert.True(t, deleted)

	fetched, err := s.FetchFileArtifacts("foo.go")
	require.NoError(t, err)
	assert.Nil(t, fetched)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM chunks_fts").Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM chunks_vec").Scan(&count))
	assert.Zero(t, count)
}

func TestDeleteFileArtifactsMissingPathReturnsFalse(t *testing.T) {
	s := newTestStore(t, 4)
	deleted, err := s.DeleteFileArtifacts("missing.go")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMarkFileDeletedExcludesFromActiveList(t *testing.T) {
	s := newTestStore(t, 4)
	_, err := s.ReplaceFileArtifacts(testFileRecord("foo.go"), nil)
	require.NoError(t, err)

	require.NoError(t, s.MarkFileDeleted("foo.go"))

	files, err := s.ListActiveFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}
