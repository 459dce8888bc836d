package symbols

import "strings"

// Registry maps a lowercased file extension to the Extractor that handles it.
// Unlike the chunk registry there is no plaintext fallback: files in
// languages without a registered extractor simply produce no symbol data,
// and Lookup returns nil so callers can skip extraction entirely.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry builds the default registry covering the seven languages with
// tree-sitter grammars wired into this package: java, typescript/javascript,
// python, c, php, ruby, and rust.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.register([]string{"java"}, NewJavaExtractor())
	r.register([]string{"ts", "tsx", "js", "jsx"}, NewTypeScriptExtractor())
	r.register([]string{"py"}, NewPythonExtractor())
	r.register([]string{"c", "h"}, NewCExtractor())
	r.register([]string{"php"}, NewPHPExtractor())
	r.register([]string{"rb"}, NewRubyExtractor())
	r.register([]string{"rs"}, NewRustExtractor())
	return r
}

func (r *Registry) register(exts []string, e Extractor) {
	for _, ext := range exts {
		r.byExt[ext] = e
	}
}

// Lookup returns the extractor registered for filePath's extension, or nil
// if the language has no structural extractor.
func (r *Registry) Lookup(filePath string) Extractor {
	return r.byExt[extensionOf(filePath)]
}

// Extract dispatches filePath to its registered extractor and runs it. It
// returns (nil, nil) if the language has no registered extractor.
func (r *Registry) Extract(content []byte, filePath string) (*FileSymbols, error) {
	e := r.Lookup(filePath)
	if e == nil {
		return nil, nil
	}
	return e.Extract(content, filePath)
}

func extensionOf(filePath string) string {
	i := strings.LastIndexByte(filePath, '.')
	if i < 0 || i == len(filePath)-1 {
		return ""
	}
	slash := strings.LastIndexAny(filePath, "/\\")
	if slash > i {
		return ""
	}
	return strings.ToLower(filePath[i+1:])
}
