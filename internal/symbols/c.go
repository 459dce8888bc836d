package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

type cExtractor struct {
	language *sitter.Language
}

// NewCExtractor builds the C structural extractor, grounded on the teacher's
// internal/indexer/parsers/c.go: struct/union/enum specifiers and top-level
// function definitions, generalized with #include extraction and
// call_expression call sites.
func NewCExtractor() Extractor {
	return &cExtractor{language: sitter.NewLanguage(c.Language())}
}

func (e *cExtractor) Language() string { return "c" }

func (e *cExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.language)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, nil
	}

	fs := &FileSymbols{FilePath: filePath, Language: "c"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "preproc_include":
			start, _ := lineRange(n)
			path := strings.TrimSpace(strings.Trim(nodeText(n, content), "#include \t\r\n\"<>"))
			if pathNode := n.ChildByFieldName("path"); pathNode != nil {
				path = strings.Trim(nodeText(pathNode, content), "\"<>")
			}
			fs.Imports = append(fs.Imports, Import{Path: path, StartLine: start})
			fs.ImportsCount++
			return false
		case "struct_specifier", "union_specifier", "enum_specifier":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				start, end := lineRange(n)
				tag := strings.TrimSuffix(n.Kind(), "_specifier")
				fs.Symbols = append(fs.Symbols, Symbol{Name: nodeText(nameNode, content), Kind: KindType, TypeTag: tag, StartLine: start, EndLine: end})
			}
		case "function_definition":
			if declarator := n.ChildByFieldName("declarator"); declarator != nil {
				if name := cFunctionName(declarator, content); name != "" {
					start, end := lineRange(n)
					fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindFunction, TypeTag: "function", StartLine: start, EndLine: end})
				}
			}
		case "call_expression":
			if fnNode := n.ChildByFieldName("function"); fnNode != nil {
				_, end := lineRange(n)
				caller := ""
				for p := n.Parent(); p != nil; p = p.Parent() {
					if p.Kind() == "function_definition" {
						caller = cFunctionName(p.ChildByFieldName("declarator"), content)
						break
					}
				}
				fs.Calls = append(fs.Calls, Call{
					Caller: caller,
					Callee: nodeText(fnNode, content),
					Line:   end,
				})
			}
		}
		return true
	})

	return fs, nil
}

// cFunctionName descends through pointer/array declarators to the inner
// function_declarator's name, matching the teacher's findFunctionName.
func cFunctionName(n *sitter.Node, source []byte) string {
	for n != nil {
		switch n.Kind() {
		case "function_declarator":
			if id := n.ChildByFieldName("declarator"); id != nil {
				return nodeText(id, source)
			}
			return ""
		case "pointer_declarator", "array_declarator":
			n = n.ChildByFieldName("declarator")
		case "identifier":
			return nodeText(n, source)
		default:
			return ""
		}
	}
	return ""
}
