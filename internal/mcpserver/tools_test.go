package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/config"
	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestCore(t *testing.T) *core.Context {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")

	st, err := store.Open(":memory:", 4)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default(root)
	ctx, err := core.New(cfg, st, nil, "")
	require.NoError(t, err)
	return ctx
}

func TestArgStringsExtractsStringElements(t *testing.T) {
	argsMap := map[string]any{
		"paths": []interface{}{"a.go", "b.go", 3, true},
	}
	assert.Equal(t, []string{"a.go", "b.go"}, argStrings(argsMap, "paths"))
}

func TestArgStringsReturnsNilForMissingOrWrongType(t *testing.T) {
	assert.Nil(t, argStrings(map[string]any{}, "paths"))
	assert.Nil(t, argStrings(map[string]any{"paths": "not-an-array"}, "paths"))
}

func TestJSONResultMarshalsValue(t *testing.T) {
	result, err := jsonResult(map[string]any{"ok": true})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	assert.Contains(t, fmt.Sprintf("%v", result.Content[0]), `"ok":true`)
}

func TestNewRegistersEveryToolAndCloseDelegatesToContext(t *testing.T) {
	ctx := newTestCore(t)
	s := New(ctx)
	require.NotNil(t, s)
	require.NotNil(t, s.mcp)

	require.NoError(t, s.Close())
}
