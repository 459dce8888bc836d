// Command ctxcore-demo exercises a ctxcore.Context end to end against a
// real directory tree: it builds the default config, runs a confirmed
// rebuild with a live progress bar, then issues one query and prints the
// returned snippets. It is a demonstration harness, not a production
// entry point; a host embedding this module is expected to wire its own
// storage path, config, and transport instead of shelling out to this.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ctxcore/ctxcore/internal/config"
	"github.com/ctxcore/ctxcore/internal/core"
	"github.com/ctxcore/ctxcore/internal/jobs"
	"github.com/ctxcore/ctxcore/internal/store"
	"github.com/ctxcore/ctxcore/internal/tools"
)

func main() {
	root := flag.String("root", ".", "directory to index")
	query := flag.String("query", "", "query to run after rebuilding; skipped if empty")
	dbPath := flag.String("db", "", "sqlite path; defaults to <root>/.ctxcore/index.db")
	flag.Parse()

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		log.Fatalf("resolve root: %v", err)
	}

	path := *dbPath
	if path == "" {
		dir := filepath.Join(absRoot, ".ctxcore")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create state dir: %v", err)
		}
		path = filepath.Join(dir, "index.db")
	}

	// No embedder is wired below, so nothing ever writes a vector, but
	// vec0 still requires a positive dimension to create its table.
	st, err := store.Open(path, 384)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cfg := config.Default(absRoot)

	ctxCore, err := core.New(cfg, st, nil, "")
	if err != nil {
		log.Fatalf("build core: %v", err)
	}
	defer ctxCore.Close()

	ctx := context.Background()
	runRebuild(ctx, ctxCore)

	if *query != "" {
		runQuery(ctx, ctxCore, *query)
	}
}

// runRebuild starts a confirmed rebuild and renders a progress bar driven
// by polling GetRebuildStatus, the same counters a host's own UI would
// read; jobs.Manager has no push-based progress callback, so polling is
// the only way to animate a bar against it.
func runRebuild(ctx context.Context, c *core.Context) {
	result, err := tools.RebuildContext(ctx, c, tools.RebuildContextRequest{Confirm: true})
	if err != nil {
		log.Fatalf("start rebuild: %v", err)
	}

	var bar *progressbar.ProgressBar
	for {
		status := tools.GetRebuildStatus(c, tools.GetRebuildStatusRequest{JobID: result.JobID})

		if bar == nil && status.TotalFiles > 0 {
			bar = progressbar.NewOptions(status.TotalFiles,
				progressbar.OptionSetDescription(fmt.Sprintf("rebuilding (%s)", status.Phase)),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("files/s"),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionOnCompletion(func() { fmt.Println() }),
			)
		}
		if bar != nil {
			bar.Set(status.Processed)
		}

		if status.Status != jobs.StatusRunning {
			if bar != nil {
				bar.Finish()
			}
			fmt.Printf("rebuild %s: %d/%d files, %d failed\n", status.Status, status.Processed, status.TotalFiles, status.Failed)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func runQuery(ctx context.Context, c *core.Context, query string) {
	result, err := tools.QueryContext(ctx, c, tools.QueryContextRequest{Query: query, K: 10, MaxTokens: 2000})
	if err != nil {
		log.Fatalf("query_context: %v", err)
	}

	fmt.Printf("\n%d hits (%d tokens used of %d requested)\n", result.ReturnedHits, result.TokensUsed, result.TokensRequested)
	for _, hit := range result.Hits {
		fmt.Printf("  [%.3f] %s:%d-%d (%s)\n", hit.Score, hit.FilePath, hit.StartLine, hit.EndLine, hit.Kind)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
}
