package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxcore/ctxcore/internal/tokens"
)

func newTestPipeline(cfg Config) *Pipeline {
	return New(nil, nil, tokens.NewDefault(), cfg)
}

func TestValidateDropsUnknownKindsWithWarning(t *testing.T) {
	p := newTestPipeline(DefaultConfig())
	v, err := p.validate(QueryParams{Query: "x", Kinds: []string{"CODE_FUNCTION", "NOT_A_KIND"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"CODE_FUNCTION"}, v.params.Kinds)
	require.Len(t, v.warnings, 1)
	assert.Contains(t, v.warnings[0], "NOT_A_KIND")
}

func TestValidateLowercasesLanguages(t *testing.T) {
	p := newTestPipeline(DefaultConfig())
	v, err := p.validate(QueryParams{Query: "x", Languages: []string{"Go", "PYTHON"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "python"}, v.params.Languages)
}

func TestValidateDefaultsMaxTokensWhenUnset(t *testing.T) {
	p := newTestPipeline(DefaultConfig())
	v, err := p.validate(QueryParams{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, 4000, v.params.MaxTokens)
}

func TestValidateWarnsOnUnknownRequestedProvider(t *testing.T) {
	p := newTestPipeline(DefaultConfig())
	v, err := p.validate(QueryParams{Query: "x", Providers: []string{"nonexistent"}})
	require.NoError(t, err)
	assert.Empty(t, v.providers)
	require.Len(t, v.warnings, 1)
	assert.Contains(t, v.warnings[0], "nonexistent")
}
