package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

func defaultParallelism() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// Refresh runs an incremental reconcile-then-index pass: discover every
// file currently visible under RootDir, fan each absolute path out across
// a pool of Parallelism workers (each calling the Indexer directly, same
// code path the startup Reconciler uses for a single file), then prune
// anything no longer visible. Sync mode blocks until this completes and
// returns RefreshStats; async mode returns a job ID immediately and the
// same work continues on a background goroutine, queryable via GetJob.
func (m *Manager) Refresh(ctx context.Context, opts RefreshOptions) (*RefreshStats, string, error) {
	if opts.Mode == ModeAsync {
		jobCtx, cancel := context.WithCancel(context.Background())
		j := m.register(KindRefresh, ModeAsync, cancel)
		go m.runRefresh(jobCtx, j, opts)
		return nil, j.JobID, nil
	}

	j := m.register(KindRefresh, ModeSync, func() {})
	stats := m.runRefresh(ctx, j, opts)
	final := m.GetJob(j.JobID)
	if final.Status == StatusFailed {
		return stats, j.JobID, fmt.Errorf("refresh failed: %s", final.Error)
	}
	return stats, j.JobID, nil
}

func (m *Manager) runRefresh(ctx context.Context, j *Job, opts RefreshOptions) *RefreshStats {
	m.update(j, func(j *Job) { j.Phase = PhaseRunning })

	relPaths := opts.Paths
	if len(relPaths) == 0 {
		discovered, err := m.discovery.DiscoverFiles()
		if err != nil {
			m.finish(j, StatusFailed, fmt.Sprintf("discover files: %v", err))
			return &RefreshStats{}
		}
		relPaths = discovered
	}

	m.update(j, func(j *Job) { j.TotalFiles = len(relPaths) })

	parallelism := parallelismOrDefault(opts.Parallelism)
	work := make(chan string, len(relPaths))
	for _, rel := range relPaths {
		work <- filepath.Join(opts.RootDir, rel)
	}
	close(work)

	stats := &RefreshStats{}
	var statsMu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for abs := range work {
				if err := validateContext(ctx); err != nil {
					return
				}
				result, err := m.indexer.Update(ctx, []string{abs}, false)
				statsMu.Lock()
				if err != nil {
					stats.Failures++
					m.log(j, "update %s: %v", abs, err)
				} else if result != nil {
					stats.New += result.New
					stats.Modified += result.Modified
					stats.Unchanged += result.Unchanged
					stats.Failures += result.IndexingFailures
				}
				statsMu.Unlock()
				m.update(j, func(j *Job) {
					j.Processed++
					if err != nil {
						j.Failed++
					} else {
						j.Successful++
					}
					j.EstimatedRemainingMs = estimateRemainingMs(j)
				})
			}
		}()
	}
	wg.Wait()

	visibleRel := relPaths
	if len(opts.Paths) > 0 {
		visibleRel = make([]string, 0, len(relPaths))
		for _, rel := range relPaths {
			if _, err := os.Stat(filepath.Join(opts.RootDir, rel)); err == nil {
				visibleRel = append(visibleRel, rel)
			}
		}
	}
	deletedCount, deleteFailures := m.pruneVanished(visibleRel, opts.Paths)
	stats.Deleted = deletedCount
	stats.Failures += deleteFailures

	if ctx.Err() != nil {
		m.finish(j, StatusCancelled, ctx.Err().Error())
	} else if stats.Failures > 0 {
		m.finish(j, StatusCompletedWithErrors, "")
	} else {
		m.finish(j, StatusCompleted, "")
	}

	final := m.GetJob(j.JobID)
	stats.DurationMs = final.DurationMs
	return stats
}

// pruneVanished hard-deletes (store.DeleteFileArtifacts) any active file no longer present among
// visible relative paths, the same deletion step Reconciler.Reconcile
// performs for a single root. requestedScope is the caller's original
// paths filter (empty for a full refresh): when non-empty, pruning is
// restricted to active files within that scope, since a partial refresh
// has no visibility into whether files outside it still exist.
func (m *Manager) pruneVanished(visibleRel []string, requestedScope []string) (deleted, failures int) {
	active, err := m.store.ListActiveFiles()
	if err != nil {
		return 0, 1
	}
	visible := make(map[string]bool, len(visibleRel))
	for _, rel := range visibleRel {
		visible[rel] = true
	}
	var scope map[string]bool
	if len(requestedScope) > 0 {
		scope = make(map[string]bool, len(requestedScope))
		for _, rel := range requestedScope {
			scope[rel] = true
		}
	}
	for _, f := range active {
		if visible[f.RelativePath] {
			continue
		}
		if scope != nil && !scope[f.RelativePath] {
			continue
		}
		ok, err := m.store.DeleteFileArtifacts(f.RelativePath)
		if err != nil {
			failures++
			continue
		}
		if ok {
			deleted++
		}
	}
	return deleted, failures
}
