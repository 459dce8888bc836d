// Package chunk implements the structural chunkers (C2/C3): a registry that
// dispatches by file extension to a per-language splitter producing ordered,
// dense-ordinal Chunks.
package chunk

// Kind enumerates the chunk kinds a chunker may emit.
type Kind string

const (
	KindCodeHeader      Kind = "CODE_HEADER"
	KindCodeClass       Kind = "CODE_CLASS"
	KindCodeInterface   Kind = "CODE_INTERFACE"
	KindCodeEnum        Kind = "CODE_ENUM"
	KindCodeMethod      Kind = "CODE_METHOD"
	KindCodeFunction    Kind = "CODE_FUNCTION"
	KindCodeConstructor Kind = "CODE_CONSTRUCTOR"
	KindCodeBlock       Kind = "CODE_BLOCK"
	KindDocstring       Kind = "DOCSTRING"
	KindParagraph       Kind = "PARAGRAPH"
	KindMarkdownSection Kind = "MARKDOWN_SECTION"
	KindSQLStatement    Kind = "SQL_STATEMENT"
	KindYAMLBlock       Kind = "YAML_BLOCK"
	KindJSONBlock       Kind = "JSON_BLOCK"
)

// Chunk is one addressable span of a file, prior to persistence (the store
// assigns chunk_id/file_id/created_at).
type Chunk struct {
	Ordinal       int
	Kind          Kind
	StartLine     int // 1-based, 0 means absent
	EndLine       int // 1-based inclusive, 0 means absent
	Content       string
	Summary       string
	TokenEstimate int
}

// Descriptor identifies a chunking strategy, returned alongside its chunks
// so callers can report which implementation produced them.
type Descriptor struct {
	ID                 string
	DisplayName        string
	SupportedLanguages []string
	DefaultMaxTokens   int
	Description        string
}

// Chunker is the single capability every strategy implements: one method, no
// hierarchy beyond this interface (spec.md §9's "polymorphism across
// chunkers" note).
type Chunker interface {
	Strategy() Descriptor
	Chunk(content, filePath, language string) ([]Chunk, error)
}

// Options carries the knobs chunkers consult. Zero value is valid;
// normalized fills in defaults.
type Options struct {
	MaxTokens      int
	OverlapPercent float64 // fraction of a piece's line count, default 0.15
	Estimate       func(text string) int
}

const defaultMaxTokens = 800

func (o Options) normalized() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.OverlapPercent <= 0 {
		o.OverlapPercent = 0.15
	}
	if o.Estimate == nil {
		o.Estimate = estimateWords
	}
	return o
}

// estimateWords is the fallback token estimator used when a caller builds a
// chunker without wiring internal/tokens (tests, standalone use). Production
// wiring always supplies Options.Estimate from an internal/tokens.Estimator.
func estimateWords(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
