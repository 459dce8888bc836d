package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/tools"
)

func argStrings(argsMap map[string]any, key string) []string {
	raw, ok := argsMap[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func addQueryContextTool(s *server.MCPServer, ctxCtx *core.Context) {
	tool := mcp.NewTool(
		"query_context",
		mcp.WithDescription("Retrieve relevant code and documentation context for a natural-language query, ranked and fused across every enabled retrieval provider."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural language search query")),
		mcp.WithNumber("k", mcp.Description("Maximum number of hits to return before packing, default 20")),
		mcp.WithNumber("max_tokens", mcp.Description("Token budget for the returned snippets, default 4000")),
		mcp.WithArray("paths", mcp.Description("Restrict results to these path prefixes")),
		mcp.WithArray("languages", mcp.Description("Restrict results to these languages")),
		mcp.WithArray("kinds", mcp.Description("Restrict results to these chunk kinds")),
		mcp.WithArray("exclude_patterns", mcp.Description("Glob patterns to exclude from results")),
		mcp.WithArray("providers", mcp.Description("Restrict to this subset of enabled providers")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		query, ok := argsMap["query"].(string)
		if !ok || query == "" {
			return mcp.NewToolResultError("query parameter is required"), nil
		}

		req := tools.QueryContextRequest{
			Query:           query,
			Paths:           argStrings(argsMap, "paths"),
			Languages:       argStrings(argsMap, "languages"),
			Kinds:           argStrings(argsMap, "kinds"),
			ExcludePatterns: argStrings(argsMap, "exclude_patterns"),
			Providers:       argStrings(argsMap, "providers"),
		}
		if k, ok := argsMap["k"].(float64); ok {
			req.K = int(k)
		}
		if maxTokens, ok := argsMap["max_tokens"].(float64); ok {
			req.MaxTokens = int(maxTokens)
		}

		result, err := tools.QueryContext(ctx, ctxCtx, req)
		if err != nil {
			return nil, fmt.Errorf("query_context failed: %w", err)
		}
		return jsonResult(result)
	})
}

func addGetContextStatsTool(s *server.MCPServer, ctxCtx *core.Context) {
	tool := mcp.NewTool(
		"get_context_stats",
		mcp.WithDescription("Report provider status, storage totals, language distribution, recent query activity, and performance aggregates."),
		mcp.WithNumber("recent_limit", mcp.Description("Number of recent queries to include, default 10")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, _ := request.Params.Arguments.(map[string]interface{})

		req := tools.GetContextStatsRequest{}
		if limit, ok := argsMap["recent_limit"].(float64); ok {
			req.RecentLimit = int(limit)
		}

		stats, err := tools.GetContextStats(ctxCtx, req)
		if err != nil {
			return nil, fmt.Errorf("get_context_stats failed: %w", err)
		}
		return jsonResult(stats)
	})
}

func addRefreshContextTool(s *server.MCPServer, ctxCtx *core.Context) {
	tool := mcp.NewTool(
		"refresh_context",
		mcp.WithDescription("Run an incremental refresh: reindex changed files and prune deleted ones."),
		mcp.WithArray("paths", mcp.Description("Restrict the refresh to these relative paths instead of scanning the full root")),
		mcp.WithBoolean("force", mcp.Description("Accepted but has no effect: files with an unchanged content hash are skipped either way")),
		mcp.WithBoolean("async", mcp.Description("Return a job ID immediately instead of blocking")),
		mcp.WithNumber("parallelism", mcp.Description("Worker count, default: available processors")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, _ := request.Params.Arguments.(map[string]interface{})

		req := tools.RefreshContextRequest{Paths: argStrings(argsMap, "paths")}
		if force, ok := argsMap["force"].(bool); ok {
			req.Force = force
		}
		if async, ok := argsMap["async"].(bool); ok {
			req.Async = async
		}
		if parallelism, ok := argsMap["parallelism"].(float64); ok {
			req.Parallelism = int(parallelism)
		}

		result, err := tools.RefreshContext(ctx, ctxCtx, req)
		if err != nil {
			return nil, fmt.Errorf("refresh_context failed: %w", err)
		}
		return jsonResult(result)
	})
}

func addRebuildContextTool(s *server.MCPServer, ctxCtx *core.Context) {
	tool := mcp.NewTool(
		"rebuild_context",
		mcp.WithDescription("Run a destructive full reindex. Requires confirm=true unless validate_only=true."),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to actually run the rebuild")),
		mcp.WithArray("paths", mcp.Description("Optional subset of paths to validate exist before rebuilding")),
		mcp.WithBoolean("validate_only", mcp.Description("Run validation only, no destructive action")),
		mcp.WithNumber("parallelism", mcp.Description("Worker count, default: available processors")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		req := tools.RebuildContextRequest{Paths: argStrings(argsMap, "paths")}
		if confirm, ok := argsMap["confirm"].(bool); ok {
			req.Confirm = confirm
		}
		if validateOnly, ok := argsMap["validate_only"].(bool); ok {
			req.ValidateOnly = validateOnly
		}
		if parallelism, ok := argsMap["parallelism"].(float64); ok {
			req.Parallelism = int(parallelism)
		}

		result, err := tools.RebuildContext(ctx, ctxCtx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	})
}

func addGetRebuildStatusTool(s *server.MCPServer, ctxCtx *core.Context) {
	tool := mcp.NewTool(
		"get_rebuild_status",
		mcp.WithDescription("Report a refresh or rebuild job's phase, progress, timing, and optionally its log trail."),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Job ID returned by refresh_context or rebuild_context")),
		mcp.WithBoolean("include_logs", mcp.Description("Include the job's log trail in the result")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		jobID, ok := argsMap["job_id"].(string)
		if !ok || jobID == "" {
			return mcp.NewToolResultError("job_id parameter is required"), nil
		}

		req := tools.GetRebuildStatusRequest{JobID: jobID}
		if includeLogs, ok := argsMap["include_logs"].(bool); ok {
			req.IncludeLogs = includeLogs
		}

		status := tools.GetRebuildStatus(ctxCtx, req)
		return jsonResult(status)
	})
}
