package tools

import (
	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/metrics"
	"github.com/ctxcore/ctxcore/internal/store"
)

// GetContextStatsRequest is get_context_stats's parameter set.
type GetContextStatsRequest struct {
	RecentLimit int
}

// ContextStats is get_context_stats's result: provider status, storage
// totals, language distribution, recent query activity, and the
// performance aggregate.
type ContextStats struct {
	Providers     []string
	Totals        store.Totals
	Languages     []store.LanguageCount
	Recent        []metrics.Record
	Performance   metrics.Aggregate
	BootstrapErrors int
}

// GetContextStats reports the current storage and provider state plus
// recent query performance, matching spec §6's get_context_stats tool.
func GetContextStats(c *core.Context, req GetContextStatsRequest) (*ContextStats, error) {
	limit := req.RecentLimit
	if limit <= 0 {
		limit = 10
	}

	totals, err := c.Store.Totals()
	if err != nil {
		return nil, err
	}

	languages, err := c.Store.LanguageDistribution()
	if err != nil {
		return nil, err
	}

	bootstrapErrors, err := c.Store.ListBootstrapErrors()
	if err != nil {
		return nil, err
	}

	return &ContextStats{
		Providers:       c.Pipeline.ProviderIDs(),
		Totals:          totals,
		Languages:       languages,
		Recent:          c.Metrics.Recent(limit),
		Performance:     c.Metrics.Aggregate(),
		BootstrapErrors: len(bootstrapErrors),
	}, nil
}
