package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Rebuild runs a destructive full reindex through its five phases:
// validation, pre-rebuild (create job, acquire the process-wide rebuild
// lock), destructive (store.ClearAll), rebuild (full discovery + indexer
// walk with a worker pool, same shape as Refresh), and post-rebuild
// (release the lock, mark completed). Only one rebuild may run at a time;
// a second call while one is in flight returns an error immediately
// without registering a job.
func (m *Manager) Rebuild(ctx context.Context, opts RebuildOptions) (jobID string, err error) {
	if err := m.validateRebuild(opts); err != nil {
		return "", err
	}
	if opts.ValidateOnly {
		return "", nil
	}

	if !m.rebuildInFlight.CompareAndSwap(false, true) {
		return "", errAnotherRebuildInProgress
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	j := m.register(KindRebuild, ModeAsync, cancel)
	go m.runRebuild(jobCtx, j, opts)
	return j.JobID, nil
}

func (m *Manager) validateRebuild(opts RebuildOptions) error {
	if !opts.Confirm && !opts.ValidateOnly {
		return fmt.Errorf("%w: rebuild requires confirm=true (or validate_only=true to dry-run)", errRebuildValidation)
	}
	if opts.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must be >= 1 if set", errRebuildValidation)
	}
	for _, p := range opts.Paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(opts.RootDir, p)
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("%w: path %q does not exist", errRebuildValidation, p)
		}
	}
	return nil
}

var errRebuildValidation = fmt.Errorf("validation")

func (m *Manager) runRebuild(ctx context.Context, j *Job, opts RebuildOptions) {
	defer m.rebuildInFlight.Store(false)

	m.update(j, func(j *Job) { j.Phase = PhasePre })
	m.log(j, "rebuild %s: acquired exclusive lock", j.JobID)

	m.update(j, func(j *Job) { j.Phase = PhaseDestructive })
	if err := m.store.ClearAll(); err != nil {
		m.finish(j, StatusFailed, fmt.Sprintf("destructive phase: %v", err))
		return
	}
	m.log(j, "rebuild %s: cleared all tables", j.JobID)

	m.update(j, func(j *Job) { j.Phase = PhaseRebuild })
	relPaths, err := m.discovery.DiscoverFiles()
	if err != nil {
		m.finish(j, StatusFailed, fmt.Sprintf("discover files: %v", err))
		return
	}
	m.update(j, func(j *Job) { j.TotalFiles = len(relPaths) })

	parallelism := parallelismOrDefault(opts.Parallelism)
	work := make(chan string, len(relPaths))
	for _, rel := range relPaths {
		work <- filepath.Join(opts.RootDir, rel)
	}
	close(work)

	var wg sync.WaitGroup
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for abs := range work {
				if err := validateContext(ctx); err != nil {
					return
				}
				_, err := m.indexer.Update(ctx, []string{abs}, false)
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

	m.update(j, func(j *Job) { j.Phase = PhasePost })
	m.log(j, "rebuild %s: released exclusive lock", j.JobID)

	failed := m.GetJob(j.JobID).Failed
	if ctx.Err() != nil {
		m.finish(j, StatusCancelled, ctx.Err().Error())
	} else if failed > 0 {
		m.finish(j, StatusCompletedWithErrors, "")
	} else {
		m.finish(j, StatusCompleted, "")
	}
}
