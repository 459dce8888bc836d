package index

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ctxcore/ctxcore/internal/store"
)

// ReconcileResult is the startup reconciliation's summary, returned even on
// partial failure (Error set, counts reflect whatever completed).
type ReconcileResult struct {
	New          int
	Deleted      int
	StartedAt    time.Time
	CompletedAt  time.Time
	DurationMs   int64
	Error        string
}

// Reconciler is the C6 StartupReconciler: at boot, diffs the filesystem
// under a set of watch roots against persisted FileRecords and brings the
// store up to date without a full rebuild.
type Reconciler struct {
	store      *store.Store
	indexer    *Indexer
	discovery  *Discovery
}

// NewReconciler builds a reconciler over the given root's discovery rules.
func NewReconciler(st *store.Store, idx *Indexer, discovery *Discovery) *Reconciler {
	return &Reconciler{store: st, indexer: idx, discovery: discovery}
}

// Reconcile implements spec 4.5's five steps. rootDir is the absolute
// directory under which file_state's rel_path entries are resolved; each
// call reconciles that one root.
func (r *Reconciler) Reconcile(ctx context.Context, rootDir string) *ReconcileResult {
	result := &ReconcileResult{StartedAt: time.Now()}
	defer func() {
		result.CompletedAt = time.Now()
		result.DurationMs = result.CompletedAt.Sub(result.StartedAt).Milliseconds()
	}()

	active, err := r.store.ListActiveFiles()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if len(active) == 0 {
		return result
	}
	indexed := make(map[string]bool, len(active))
	for _, f := range active {
		indexed[f.RelativePath] = true
	}

	scanned, err := r.discovery.DiscoverFiles()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	visible := make(map[string]bool, len(scanned))
	for _, rel := range scanned {
		visible[rel] = true
	}

	var newAbsPaths []string
	for rel := range visible {
		if !indexed[rel] {
			newAbsPaths = append(newAbsPaths, filepath.Join(rootDir, rel))
		}
	}

	if len(newAbsPaths) > 0 {
		updateResult, err := r.indexer.Update(ctx, newAbsPaths, false)
		if err != nil {
			result.Error = err.Error()
		}
		if updateResult != nil {
			result.New = updateResult.New + updateResult.Modified
		}
	}

	for rel := range indexed {
		if visible[rel] {
			continue
		}
		if ok, err := r.store.DeleteFileArtifacts(rel); err == nil && ok {
			result.Deleted++
		}
	}

	return result
}
