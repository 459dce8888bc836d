// Package index implements the incremental indexer (C5) and startup
// reconciler (C6): walking the indexed root, classifying files against
// persisted state, and driving internal/chunk, internal/symbols, and
// internal/store to keep the two in sync.
package index

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Discovery walks a root directory and reports which files are in scope,
// grounded on the teacher's FileDiscovery but generalized from a fixed
// code/docs split into one glob-driven include set (chunkers already
// dispatch per extension, so there is no need to separate categories here).
type Discovery struct {
	rootDir  string
	include  []glob.Glob
	ignore   []glob.Glob
}

// NewDiscovery compiles includePatterns/ignorePatterns ('/' as the glob
// path separator, matching gobwas/glob's convention for directory-aware
// matching) rooted at rootDir.
func NewDiscovery(rootDir string, includePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}
	for _, p := range includePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		d.include = append(d.include, g)
	}
	for _, p := range ignorePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		d.ignore = append(d.ignore, g)
	}
	return d, nil
}

// DiscoverFiles walks rootDir and returns every in-scope file's relative
// path (slash-separated, regardless of OS).
func (d *Discovery) DiscoverFiles() ([]string, error) {
	var out []string
	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.ShouldIgnore(relPath) {
			return nil
		}
		if d.matchesAny(relPath, d.include) {
			out = append(out, relPath)
		}
		return nil
	})
	return out, err
}

// ShouldIgnore reports whether relPath is excluded, either by an explicit
// ignore pattern or because it falls under a directory an ignore pattern
// names without a trailing "/**".
func (d *Discovery) ShouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".git/") || relPath == ".git" {
		return true
	}
	if d.matchesAny(relPath, d.ignore) {
		return true
	}
	if d.matchesAny(relPath+"/**", d.ignore) {
		return true
	}
	for i := strings.LastIndex(relPath, "/"); i > 0; i = strings.LastIndex(relPath[:i], "/") {
		if d.matchesAny(relPath[:i], d.ignore) {
			return true
		}
	}
	return false
}

func (d *Discovery) matchesAny(path string, patterns []glob.Glob) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
