package provider

import (
	"strings"

	"github.com/gobwas/glob"
)

// matchesScope applies params' scope filters the same way store's
// ScopeFilter does, for providers (semantic, symbol, full_text,
// git_history) that hydrate
// candidates outside of a single store.SearchChunks call and so must
// re-check scope themselves.
func matchesScope(relPath, language, kind string, params Params) bool {
	if len(params.Paths) > 0 && !hasPrefixAny(relPath, params.Paths) {
		return false
	}
	if len(params.Languages) > 0 && !containsString(params.Languages, language) {
		return false
	}
	if len(params.Kinds) > 0 && !containsString(params.Kinds, kind) {
		return false
	}
	for _, pattern := range params.ExcludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		if g.Match(relPath) {
			return false
		}
	}
	return true
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
