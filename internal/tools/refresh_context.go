package tools

import (
	"context"

	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/jobs"
)

// RefreshContextRequest is refresh_context's parameter set. Paths, if
// non-empty, restricts the refresh (and its vanished-file pruning) to
// those relative paths instead of a full discovery walk. Force is
// accepted for interface parity with spec §6 but the indexer already
// reconciles on content hash, so a forced refresh behaves the same as a
// normal one — every visible file is still fed through Update, which is
// a no-op for files whose hash hasn't changed.
type RefreshContextRequest struct {
	Paths       []string
	Force       bool
	Async       bool
	Parallelism int
}

// RefreshContextResult is refresh_context's result: either a completed
// sync RefreshStats, or an async job handle to poll via
// GetRebuildStatus (the same Job shape serves both refresh and rebuild).
type RefreshContextResult struct {
	Mode   jobs.Mode
	JobID  string
	Status jobs.Status
	Stats  *jobs.RefreshStats
}

// RefreshContext runs an incremental refresh, matching spec §6's
// refresh_context tool.
func RefreshContext(ctx context.Context, c *core.Context, req RefreshContextRequest) (*RefreshContextResult, error) {
	mode := jobs.ModeSync
	if req.Async {
		mode = jobs.ModeAsync
	}

	stats, jobID, err := c.Jobs.Refresh(ctx, jobs.RefreshOptions{
		Mode:        mode,
		RootDir:     c.Config.Paths.RootDir,
		Paths:       req.Paths,
		Parallelism: req.Parallelism,
	})
	if err != nil {
		return nil, err
	}

	result := &RefreshContextResult{Mode: mode, JobID: jobID, Stats: stats}
	if req.Async {
		result.Status = jobs.StatusRunning
	} else {
		result.Status = c.Jobs.GetJob(jobID).Status
	}
	return result, nil
}
