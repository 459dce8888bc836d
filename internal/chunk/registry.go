package chunk

import "strings"

// Registry maps a lowercased file extension to the Chunker that handles it.
// Unregistered extensions fall back to the plaintext chunker.
type Registry struct {
	byExt    map[string]Chunker
	fallback Chunker
}

// NewRegistry builds the default registry wired per spec.md §4.2: md →
// markdown, py → python, ts/tsx/js/jsx → typescript, java → java, cs →
// csharp, kt → kotlin, yaml/yml → yaml, json → json, sql → sql, everything
// else → plaintext.
func NewRegistry(opts Options) *Registry {
	opts = opts.normalized()
	fallback := NewPlaintextChunker(opts)

	r := &Registry{byExt: make(map[string]Chunker), fallback: fallback}
	r.register([]string{"md", "markdown"}, NewMarkdownChunker(opts))
	r.register([]string{"py"}, NewPythonChunker(opts))
	r.register([]string{"ts", "tsx", "js", "jsx"}, NewTypeScriptChunker(opts))
	r.register([]string{"java"}, NewJavaChunker(opts))
	r.register([]string{"cs"}, NewCSharpChunker(opts))
	r.register([]string{"kt", "kts"}, NewKotlinChunker(opts))
	r.register([]string{"yaml", "yml"}, NewYAMLChunker(opts))
	r.register([]string{"json"}, NewJSONChunker(opts))
	r.register([]string{"sql"}, NewSQLChunker(opts))
	r.register([]string{"txt"}, fallback)
	return r
}

func (r *Registry) register(exts []string, c Chunker) {
	for _, e := range exts {
		r.byExt[e] = c
	}
}

// Lookup returns the chunker registered for filePath's extension, or the
// plaintext fallback if none matches.
func (r *Registry) Lookup(filePath string) Chunker {
	ext := extensionOf(filePath)
	if c, ok := r.byExt[ext]; ok {
		return c
	}
	return r.fallback
}

// Chunk dispatches filePath to its registered chunker and runs it.
func (r *Registry) Chunk(content, filePath, language string) ([]Chunk, error) {
	return r.Lookup(filePath).Chunk(content, filePath, language)
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
