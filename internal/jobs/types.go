// Package jobs implements the refresh and rebuild job orchestration (C10,
// C11): sync/async incremental refresh over a worker pool, and a gated,
// phased, destructive full rebuild. Both share one Job bookkeeping record
// and one Manager, following the teacher's SearcherCoordinator idiom of
// a mutex-guarded coordinated operation sitting alongside lock-free reads.
package jobs

import "time"

// Mode selects whether a refresh runs inline or as a background job.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// Phase tracks a job's progress through its lifecycle. Every job is
// registered in validation; refresh jobs then pass through running and
// completed, rebuild jobs through pre, destructive, rebuild, post and
// completed in order.
type Phase string

const (
	PhaseValidation  Phase = "validation"
	PhasePre         Phase = "pre"
	PhaseDestructive Phase = "destructive"
	PhaseRebuild     Phase = "rebuild"
	PhasePost        Phase = "post"
	PhaseCompleted   Phase = "completed"

	// PhaseRunning is the phase a refresh job works in after validation;
	// rebuild jobs use the fuller pre/destructive/rebuild/post sequence
	// instead.
	PhaseRunning Phase = "running"
)

// Status is a job's terminal or in-flight state.
type Status string

const (
	StatusRunning            Status = "running"
	StatusCompleted          Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed             Status = "failed"
	StatusCancelled          Status = "cancelled"
	StatusNotFound           Status = "not_found"
)

// Kind distinguishes a refresh job from a rebuild job for display/metadata
// purposes; the two share storage and polling but have different phase
// sequences and validation rules.
type Kind string

const (
	KindRefresh Kind = "refresh"
	KindRebuild Kind = "rebuild"
)

// Job is the queryable state of one refresh or rebuild run. Every field is
// read under Manager's lock; callers get a copy, never the live record.
type Job struct {
	JobID         string
	Kind          Kind
	Mode          Mode
	Phase         Phase
	Status        Status
	TotalFiles    int
	Processed     int
	Successful    int
	Failed        int
	StartedAt     time.Time
	CompletedAt   time.Time
	DurationMs    int64
	EstimatedRemainingMs int64
	Error         string
	Logs          []string
	cancel        func()
}

// snapshot copies everything but the cancel func, the shape callers and
// tests observe through GetJob.
func (j *Job) snapshot() Job {
	cp := *j
	cp.cancel = nil
	cp.Logs = append([]string(nil), j.Logs...)
	return cp
}

// RefreshOptions configures a refresh run. Parallelism <= 0 means "use
// every available processor", matching spec's documented default. Paths,
// if non-empty, restricts the refresh to those relative paths instead of
// a full discovery walk; vanished-file pruning still only considers the
// requested paths in that case, since a partial refresh has no visibility
// into files outside its scope.
type RefreshOptions struct {
	Mode        Mode
	RootDir     string
	Paths       []string
	Parallelism int
}

// RefreshStats is a sync refresh's inline return value (async refresh
// callers instead poll GetJob for the same counters).
type RefreshStats struct {
	New       int
	Modified  int
	Deleted   int
	Unchanged int
	Failures  int
	DurationMs int64
}

// RebuildOptions configures a rebuild run.
type RebuildOptions struct {
	RootDir      string
	Paths        []string // optional subset; every entry must exist or validation fails
	Parallelism  int
	Confirm      bool
	ValidateOnly bool
}
