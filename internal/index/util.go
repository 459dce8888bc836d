package index

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// extToLanguage maps a lowercase extension to the language name persisted
// in file_state and matched against ScopeFilter.Languages.
var extToLanguage = map[string]string{
	"go": "go", "py": "python", "rb": "ruby", "rs": "rust",
	"java": "java", "cs": "csharp", "kt": "kotlin", "kts": "kotlin",
	"ts": "typescript", "tsx": "typescript", "js": "javascript", "jsx": "javascript",
	"c": "c", "h": "c", "php": "php",
	"md": "markdown", "markdown": "markdown",
	"yaml": "yaml", "yml": "yaml", "json": "json", "sql": "sql",
}

// languageForExtension returns relPath's language, or "" if its extension
// isn't recognized (chunkers still handle it via the plaintext fallback).
func languageForExtension(relPath string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relPath), "."))
	return extToLanguage[ext]
}
