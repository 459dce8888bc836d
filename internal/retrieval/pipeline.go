package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ctxcore/ctxcore/internal/retrieval/provider"
	"github.com/ctxcore/ctxcore/internal/store"
	"github.com/ctxcore/ctxcore/internal/tokens"
)

// Pipeline is the assembled retrieval pipeline (C9): a fixed provider set
// plus tuning config, run fresh for every Query call. It holds no
// per-query mutable state, mirroring the teacher's SearcherCoordinator's
// separation between coordinated reloads (mutex-guarded) and queries
// (lock-free, safe to run concurrently).
type Pipeline struct {
	providers map[string]provider.RetrievalProvider
	order     []string // registration order, for deterministic fan-out/tie-breaks
	store     *store.Store
	estimator *tokens.Estimator
	cfg       Config
}

// New assembles a Pipeline from an ordered set of providers. Registration
// order is preserved for deterministic iteration; providers not present in
// cfg.Providers are treated as disabled.
func New(providers []provider.RetrievalProvider, st *store.Store, estimator *tokens.Estimator, cfg Config) *Pipeline {
	p := &Pipeline{
		providers: make(map[string]provider.RetrievalProvider, len(providers)),
		store:     st,
		estimator: estimator,
		cfg:       cfg,
	}
	for _, prov := range providers {
		id := prov.ID()
		p.providers[id] = prov
		p.order = append(p.order, id)
	}
	return p
}

// ProviderIDs returns the registered provider IDs in registration order,
// for callers (get_context_stats) that report which providers are wired
// without needing a full query.
func (p *Pipeline) ProviderIDs() []string {
	return append([]string(nil), p.order...)
}

// Query runs the full nine-step pipeline: filter scope, provider fan-out,
// score fusion, boost, MMR diversification, neighbor expansion,
// deduplication, token packing, and metadata assembly.
func (p *Pipeline) Query(ctx context.Context, params QueryParams) (*Result, error) {
	v, err := p.validate(params)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TokensRequested: v.params.MaxTokens,
		ProviderStats:   map[string]ProviderStat{},
		Warnings:        append([]string{}, v.warnings...),
	}

	if len(v.providers) == 0 {
		result.Warnings = append(result.Warnings, "no enabled providers matched this query")
		return result, nil
	}

	// Steps 1-2: scope filter (pushed into each provider's Params) and
	// fan-out under a soft per-provider deadline.
	candidates, stats := p.fanOut(ctx, v)
	result.ProviderStats = stats
	result.Warnings = append([]string{}, v.warnings...)

	if len(candidates) == 0 {
		result.Warnings = append(result.Warnings, "no provider returned any candidates")
		return result, nil
	}

	// Step 3: score fusion.
	fused := fuse(candidates, v.providers, p.cfg.Providers)
	result.TotalHits = len(fused)

	// Step 4: boost.
	applyBoosts(fused, p.cfg.PathBoosts, p.cfg.LanguageBoosts)

	sortFused(fused)

	// Step 5: MMR diversification.
	selected := fused
	if p.cfg.UseOptimizer {
		lambda := 1 - clamp01(p.cfg.DiversityWeight)
		selected = mmrSelect(fused, lambda, v.params.K)
	} else if len(selected) > v.params.K {
		selected = selected[:v.params.K]
	}

	// Step 6: neighbor expansion.
	selected = p.expandNeighbors(selected, p.cfg.NeighborWindow)

	// Step 7: deduplication.
	selected = dedupe(selected)
	sortFused(selected)

	// Step 8: token packing.
	snippets, tokensUsed, fallback := p.pack(selected, v.params.MaxTokens)

	result.Hits = snippets
	result.ReturnedHits = len(snippets)
	result.TokensUsed = tokensUsed
	result.FallbackUsed = fallback

	return result, nil
}

// fanOut invokes every resolved provider concurrently, each bounded by the
// pipeline's soft per-provider deadline. A provider that times out or
// errors contributes zero candidates plus a warning; the query degrades
// rather than failing outright, matching the "single-provider failure ->
// pipeline continues with survivors" rule.
func (p *Pipeline) fanOut(ctx context.Context, v *validated) ([]scoredCandidate, map[string]ProviderStat) {
	deadline := time.Duration(p.cfg.ProviderDeadlineMs) * time.Millisecond
	if deadline <= 0 {
		deadline = 2 * time.Second
	}

	type outcome struct {
		id         string
		candidates []provider.Candidate
		err        error
		latency    time.Duration
	}

	results := make(chan outcome, len(v.providers))
	for _, id := range v.providers {
		prov := p.providers[id]
		go func(id string, prov provider.RetrievalProvider) {
			pctx, cancel := context.WithTimeout(ctx, deadline)
			defer cancel()

			start := time.Now()
			cands, err := prov.Search(pctx, provider.Params{
				Query:           v.params.Query,
				K:               v.params.K,
				Paths:           v.params.Paths,
				Languages:       v.params.Languages,
				Kinds:           v.params.Kinds,
				ExcludePatterns: v.params.ExcludePatterns,
			})
			results <- outcome{id: id, candidates: cands, err: err, latency: time.Since(start)}
		}(id, prov)
	}

	var all []scoredCandidate
	stats := make(map[string]ProviderStat, len(v.providers))
	for range v.providers {
		o := <-results
		stat := ProviderStat{LatencyMs: o.latency.Milliseconds()}
		if o.err != nil {
			stat.Error = o.err.Error()
			stats[o.id] = stat
			v.warnings = append(v.warnings, fmt.Sprintf("provider %q failed: %v", o.id, o.err))
			continue
		}
		stat.Count = len(o.candidates)
		for _, c := range o.candidates {
			if c.Score > stat.MaxScore {
				stat.MaxScore = c.Score
			}
			all = append(all, scoredCandidate{providerID: o.id, candidate: c})
		}
		stats[o.id] = stat
	}

	return all, stats
}

func sortFused(items []fusedChunk) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		if len(items[i].providers) != len(items[j].providers) {
			return len(items[i].providers) > len(items[j].providers)
		}
		return items[i].filePath < items[j].filePath
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
