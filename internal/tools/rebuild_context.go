package tools

import (
	"context"
	"fmt"

	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/jobs"
)

// RebuildContextRequest is rebuild_context's parameter set. Confirm must
// be true for a real rebuild to run; ValidateOnly runs validation and
// returns without registering a job, the dry-run path. A rebuild always
// runs as an async job once it passes validation, unlike refresh_context
// which has a real sync mode, so there is no Async field here.
type RebuildContextRequest struct {
	Confirm      bool
	Paths        []string
	ValidateOnly bool
	Parallelism  int
}

// RebuildContextResult is rebuild_context's result.
type RebuildContextResult struct {
	JobID        string
	ValidateOnly bool
}

// RebuildContext starts a destructive full rebuild, matching spec §6's
// rebuild_context tool. Safety requires Confirm=true unless ValidateOnly
// is set; core.ErrInvalidArgument is returned (wrapped) otherwise.
func RebuildContext(ctx context.Context, c *core.Context, req RebuildContextRequest) (*RebuildContextResult, error) {
	if !req.Confirm && !req.ValidateOnly {
		return nil, fmt.Errorf("%w: rebuild_context requires confirm=true or validate_only=true", core.ErrInvalidArgument)
	}

	jobID, err := c.Jobs.Rebuild(ctx, jobs.RebuildOptions{
		RootDir:      c.Config.Paths.RootDir,
		Paths:        req.Paths,
		Parallelism:  req.Parallelism,
		Confirm:      req.Confirm,
		ValidateOnly: req.ValidateOnly,
	})
	if err != nil {
		return nil, err
	}

	return &RebuildContextResult{JobID: jobID, ValidateOnly: req.ValidateOnly}, nil
}

// GetRebuildStatusRequest is get_rebuild_status's parameter set. Applies
// equally to a refresh or rebuild job ID, since both share one Job shape.
type GetRebuildStatusRequest struct {
	JobID       string
	IncludeLogs bool
}

// GetRebuildStatus returns a job's current phase, progress, timing, and
// optionally its log trail, matching spec §6's get_rebuild_status tool.
// An unknown job ID is not an error: the returned Job carries
// Status == jobs.StatusNotFound, per spec §7's NotFound-is-not-
// exceptional rule.
func GetRebuildStatus(c *core.Context, req GetRebuildStatusRequest) jobs.Job {
	j := c.Jobs.GetJob(req.JobID)
	if !req.IncludeLogs {
		j.Logs = nil
	}
	return j
}
