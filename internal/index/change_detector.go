package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctxcore/ctxcore/internal/store"
)

// ChangeSet is the result of classifying discovered files against
// persisted file_state, mirroring the teacher's ChangeSet.
type ChangeSet struct {
	Added     []string
	Modified  []string
	Deleted   []string
	Unchanged []string
}

// ChangeDetector compares filesystem state to store state.
type ChangeDetector struct {
	rootDir   string
	store     *store.Store
	discovery *Discovery
}

// NewChangeDetector builds a detector rooted at rootDir, using discovery to
// find in-scope files when no hint is given.
func NewChangeDetector(rootDir string, st *store.Store, discovery *Discovery) *ChangeDetector {
	return &ChangeDetector{rootDir: rootDir, store: st, discovery: discovery}
}

// DetectChanges classifies files against persisted state, following the
// teacher's mtime-fast-path-then-hash algorithm: if hint is non-empty, only
// those relative paths are checked (the watch-driven path); if empty, a
// full filesystem discovery runs and deletions are detected too.
func (cd *ChangeDetector) DetectChanges(ctx context.Context, hint []string) (*ChangeSet, error) {
	changes := &ChangeSet{}

	relFiles := hint
	fullScan := len(hint) == 0
	if fullScan {
		discovered, err := cd.discovery.DiscoverFiles()
		if err != nil {
			return nil, fmt.Errorf("discover files: %w", err)
		}
		relFiles = discovered
	}

	dbFiles, err := cd.store.ListActiveFiles()
	if err != nil {
		return nil, fmt.Errorf("list active files: %w", err)
	}
	dbByPath := make(map[string]store.FileRecord, len(dbFiles))
	for _, f := range dbFiles {
		dbByPath[f.RelativePath] = f
	}

	for _, relPath := range relFiles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		absPath := filepath.Join(cd.rootDir, relPath)
		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", relPath, err)
		}

		dbFile, existsInDB := dbByPath[relPath]
		if !existsInDB {
			changes.Added = append(changes.Added, relPath)
			continue
		}
		delete(dbByPath, relPath)

		diskMtime := info.ModTime().UnixNano()
		if diskMtime == dbFile.ModifiedTimeNs {
			changes.Unchanged = append(changes.Unchanged, relPath)
			continue
		}

		diskHash, err := hashFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", relPath, err)
		}
		if diskHash == dbFile.ContentHash {
			changes.Unchanged = append(changes.Unchanged, relPath)
		} else {
			changes.Modified = append(changes.Modified, relPath)
		}
	}

	if fullScan {
		for relPath := range dbByPath {
			changes.Deleted = append(changes.Deleted, relPath)
		}
	}

	return changes, nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
