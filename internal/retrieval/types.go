// Package retrieval implements the retrieval pipeline (C9): a nine-step
// query -> ContextSnippet pipeline that fans out to every enabled
// RetrievalProvider, fuses and boosts their scores, diversifies with MMR,
// expands neighbors, deduplicates, and greedily packs results into a token
// budget.
package retrieval

import (
	"github.com/ctxcore/ctxcore/internal/chunk"
	"github.com/ctxcore/ctxcore/internal/store"
)

// KnownKinds is the full set of chunk kinds a caller may filter by. A
// kinds filter value outside this set is dropped with a warning rather
// than rejecting the whole query.
var KnownKinds = map[string]bool{
	string(chunk.KindCodeHeader):      true,
	string(chunk.KindCodeClass):       true,
	string(chunk.KindCodeInterface):   true,
	string(chunk.KindCodeEnum):        true,
	string(chunk.KindCodeMethod):      true,
	string(chunk.KindCodeFunction):    true,
	string(chunk.KindCodeConstructor): true,
	string(chunk.KindCodeBlock):       true,
	string(chunk.KindDocstring):       true,
	string(chunk.KindParagraph):       true,
	string(chunk.KindMarkdownSection): true,
	string(chunk.KindSQLStatement):    true,
	string(chunk.KindYAMLBlock):       true,
	string(chunk.KindJSONBlock):       true,
}

// QueryParams is the pipeline's public request shape.
type QueryParams struct {
	Query           string
	K               int
	MaxTokens       int
	Paths           []string
	Languages       []string
	Kinds           []string
	ExcludePatterns []string
	Providers       []string // restricts to this subset of enabled providers, if non-empty
}

// ProviderConfig is one provider's pipeline-level tuning: whether it
// participates at all, and how heavily its normalized score counts
// towards fusion.
type ProviderConfig struct {
	Enabled bool
	Weight  float64
}

// BoostRule is a multiplicative adjustment applied once per chunk during
// the boost step.
type BoostRule struct {
	Match  string // path prefix or language, depending on which map it lives in
	Factor float64
}

// Config tunes a Pipeline's behavior across queries.
type Config struct {
	Providers         map[string]ProviderConfig
	PathBoosts        []BoostRule
	LanguageBoosts     []BoostRule
	ProviderDeadlineMs int     // soft per-provider timeout, default 2000
	UseOptimizer       bool    // MMR diversification toggle, default true
	DiversityWeight    float64 // diversity_weight in [0,1], default 0.3
	NeighborWindow     int     // preceding/following chunks to pull in, default 1
}

// DefaultConfig returns the pipeline's documented defaults: semantic,
// symbol and full_text enabled at equal weight, git_history disabled, MMR
// on, a one-chunk neighbor window.
func DefaultConfig() Config {
	return Config{
		Providers: map[string]ProviderConfig{
			"semantic":    {Enabled: true, Weight: 1.0},
			"symbol":      {Enabled: true, Weight: 1.0},
			"full_text":   {Enabled: true, Weight: 1.0},
			"git_history": {Enabled: false, Weight: 0.5},
		},
		ProviderDeadlineMs: 2000,
		UseOptimizer:       true,
		DiversityWeight:    0.3,
		NeighborWindow:     1,
	}
}

// ProviderStat summarizes one provider's contribution to a single query.
type ProviderStat struct {
	Count     int
	MaxScore  float64
	LatencyMs int64
	Error     string
}

// Result is the pipeline's full response: the packed snippets plus
// metadata about how the query was served.
type Result struct {
	Hits            []store.ContextSnippet
	TotalHits       int
	ReturnedHits    int
	TokensUsed      int
	TokensRequested int
	ProviderStats   map[string]ProviderStat
	Warnings        []string
	FallbackUsed    bool
}

const (
	minMaxTokens = 1000
	maxMaxTokens = 120000
)
