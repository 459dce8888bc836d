package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ctxcore/ctxcore/internal/index"
	"github.com/ctxcore/ctxcore/internal/store"
)

// retentionWindow bounds how long a completed job stays queryable before
// the manager's sweep reclaims it, matching spec's "bounded retention
// window or explicit clear_completed_jobs" rule.
const retentionWindow = 30 * time.Minute

// Manager runs and tracks refresh and rebuild jobs. Only one rebuild may
// be in flight process-wide; refreshes have no such restriction, matching
// spec's rebuild-only mutual-exclusion gate.
type Manager struct {
	store     *store.Store
	indexer   *index.Indexer
	discovery *index.Discovery

	mu   sync.Mutex
	jobs map[string]*Job

	rebuildInFlight atomic.Bool
}

// New builds a Manager wired to the indexing stack a refresh/rebuild
// drives: the store for the rebuild's destructive phase, the indexer for
// per-file work, and discovery for the full-walk rebuild phase.
func New(st *store.Store, idx *index.Indexer, discovery *index.Discovery) *Manager {
	return &Manager{
		store:     st,
		indexer:   idx,
		discovery: discovery,
		jobs:      make(map[string]*Job),
	}
}

// GetJob returns a snapshot of jobID's current state, or a not_found
// status if it never existed or has been swept by retention.
func (m *Manager) GetJob(jobID string) Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return Job{JobID: jobID, Status: StatusNotFound}
	}
	return j.snapshot()
}

// ClearCompletedJobs drops every job not currently running, regardless of
// retentionWindow, for callers that want an explicit reset.
func (m *Manager) ClearCompletedJobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleared := 0
	for id, j := range m.jobs {
		if j.Status != StatusRunning {
			delete(m.jobs, id)
			cleared++
		}
	}
	return cleared
}

// CancelJob requests graceful cancellation: in-flight file handoffs
// complete, no new work is scheduled, and the job settles into
// StatusCancelled once its goroutine observes ctx.Done(). Returns false if
// jobID isn't running.
func (m *Manager) CancelJob(jobID string) bool {
	m.mu.Lock()
	j, ok := m.jobs[jobID]
	m.mu.Unlock()
	if !ok || j.Status != StatusRunning || j.cancel == nil {
		return false
	}
	j.cancel()
	return true
}

func (m *Manager) register(kind Kind, mode Mode, cancel func()) *Job {
	j := &Job{
		JobID:     uuid.New().String(),
		Kind:      kind,
		Mode:      mode,
		Phase:     PhaseValidation,
		Status:    StatusRunning,
		StartedAt: time.Now(),
		cancel:    cancel,
	}
	m.mu.Lock()
	m.jobs[j.JobID] = j
	m.mu.Unlock()
	return j
}

func (m *Manager) finish(j *Job, status Status, errMsg string) {
	m.mu.Lock()
	j.Status = status
	j.Phase = PhaseCompleted
	j.Error = errMsg
	j.CompletedAt = time.Now()
	j.DurationMs = j.CompletedAt.Sub(j.StartedAt).Milliseconds()
	m.mu.Unlock()

	time.AfterFunc(retentionWindow, func() {
		m.mu.Lock()
		if cur, ok := m.jobs[j.JobID]; ok && cur.Status != StatusRunning {
			delete(m.jobs, j.JobID)
		}
		m.mu.Unlock()
	})
}

func (m *Manager) update(j *Job, fn func(*Job)) {
	m.mu.Lock()
	fn(j)
	m.mu.Unlock()
}

func (m *Manager) log(j *Job, format string, args ...any) {
	m.mu.Lock()
	j.Logs = append(j.Logs, fmt.Sprintf(format, args...))
	m.mu.Unlock()
}

var errAnotherRebuildInProgress = fmt.Errorf("Another rebuild is already in progress")

func parallelismOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return defaultParallelism()
}

// estimateRemainingMs projects completion time from the average per-file
// cost observed so far. Called with the manager's lock already held (from
// within an update closure), so it reads j's fields directly.
func estimateRemainingMs(j *Job) int64 {
	if j.Processed == 0 || j.TotalFiles == 0 {
		return 0
	}
	elapsed := time.Since(j.StartedAt).Milliseconds()
	perFile := float64(elapsed) / float64(j.Processed)
	remaining := j.TotalFiles - j.Processed
	if remaining <= 0 {
		return 0
	}
	return int64(perFile * float64(remaining))
}

func validateContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
