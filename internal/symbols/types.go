// Package symbols extracts a structural index of types, functions, imports,
// inheritance relationships, and call sites from source files beyond what the
// chunkers alone produce. It feeds the symbols/links persisted tables behind
// the symbol RetrievalProvider.
package symbols

// Kind enumerates the structural role a Symbol plays.
type Kind string

const (
	KindType     Kind = "type" // struct, class, interface, enum, trait, module
	KindFunction Kind = "function"
	KindMethod   Kind = "method"
)

// Symbol is one named, line-addressable declaration extracted from a file.
type Symbol struct {
	Name      string
	Kind      Kind
	TypeTag   string // "struct", "class", "interface", "enum", "trait", "module", "function", "method"
	Owner     string // enclosing type name for methods, "" otherwise
	Signature string // functions/methods only
	StartLine int
	EndLine   int
}

// Import is a single import/include/require statement.
type Import struct {
	Path      string
	StartLine int
}

// Relationship records a type-level reference: inheritance, interface
// implementation, or module inclusion.
type Relationship struct {
	From string // the declaring type's name
	To   string // the referenced type's name, as written (unresolved across files)
	Kind string // "extends", "implements", "includes"
}

// Call records a call site: Caller is the enclosing function/method name
// ("" for a module-level call), Callee the called name as written.
type Call struct {
	Caller string
	Callee string
	Line   int
}

// FileSymbols is the complete structural extraction for one source file.
type FileSymbols struct {
	FilePath      string
	Language      string
	PackageName   string
	ImportsCount  int
	Imports       []Import
	Symbols       []Symbol
	Relationships []Relationship
	Calls         []Call
}

// Extractor parses one file's content and returns its structural symbols.
// Implementations return (nil, nil) for a file their grammar cannot parse,
// matching the chunkers' convention of an empty result over an error for
// malformed input.
type Extractor interface {
	Language() string
	Extract(content []byte, filePath string) (*FileSymbols, error)
}
