package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLChunkerRoutineBodyNotSplitOnInternalSemicolons(t *testing.T) {
	c := NewSQLChunker(Options{})
	content := "CREATE PROCEDURE p() BEGIN SELECT 1; END;"

	chunks, err := c.Chunk(content, "s.sql", "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, KindSQLStatement, chunks[0].Kind)
	assert.Equal(t, "CREATE PROCEDURE p", chunks[0].Summary)
}

func TestSQLChunkerSplitsPlainStatements(t *testing.T) {
	c := NewSQLChunker(Options{})
	content := "SELECT 1;\nSELECT 2;\n"

	chunks, err := c.Chunk(content, "s.sql", "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, ch := range chunks {
		assert.Equal(t, KindSQLStatement, ch.Kind)
	}
	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.Equal(t, 1, chunks[1].Ordinal)
}

func TestSQLChunkerEmptyContent(t *testing.T) {
	c := NewSQLChunker(Options{})
	chunks, err := c.Chunk("", "s.sql", "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSQLLabelFallsBackToFirstToken(t *testing.T) {
	assert.Equal(t, "BEGIN", sqlLabel("BEGIN something weird here"))
}
