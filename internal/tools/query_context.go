// Package tools implements the five logical, transport-agnostic
// operations the core exposes: query_context, get_context_stats,
// refresh_context, rebuild_context, and get_rebuild_status. Each is a
// plain Go function over a *core.Context, independent of any RPC
// framing; internal/mcpserver is the only thing that knows these exist
// as MCP tools.
package tools

import (
	"context"
	"time"

	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/metrics"
	"github.com/ctxcore/ctxcore/internal/retrieval"
)

// QueryContextRequest is query_context's parameter set.
type QueryContextRequest struct {
	Query           string
	K               int
	MaxTokens       int
	Paths           []string
	Languages       []string
	Kinds           []string
	ExcludePatterns []string
	Providers       []string
}

// QueryContext runs a retrieval query and records its outcome to the
// metrics collector, matching spec §6's query_context tool.
func QueryContext(ctx context.Context, c *core.Context, req QueryContextRequest) (*retrieval.Result, error) {
	start := time.Now()
	result, err := c.Pipeline.Query(ctx, retrieval.QueryParams{
		Query:           req.Query,
		K:               req.K,
		MaxTokens:       req.MaxTokens,
		Paths:           req.Paths,
		Languages:       req.Languages,
		Kinds:           req.Kinds,
		ExcludePatterns: req.ExcludePatterns,
		Providers:       req.Providers,
	})
	if err != nil {
		return nil, err
	}

	c.Metrics.Record(metrics.Record{
		Query:            req.Query,
		SnippetsReturned: result.ReturnedHits,
		TokensUsed:       result.TokensUsed,
		LatencyMs:        time.Since(start).Milliseconds(),
		RecordedAt:       time.Now(),
	})
	for provID, stat := range result.ProviderStats {
		c.Metrics.ObserveProviderLatency(provID, stat.LatencyMs)
	}

	return result, nil
}
