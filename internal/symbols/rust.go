package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

type rustExtractor struct {
	language *sitter.Language
}

// NewRustExtractor builds the Rust structural extractor, grounded on the
// teacher's internal/indexer/parsers/rust.go: struct/enum/trait items, impl
// blocks whose methods attach to the implemented type rather than being
// recursed into generically, and top-level functions, generalized with
// use-declaration import extraction, trait-implementation relationships, and
// call_expression call sites.
func NewRustExtractor() Extractor {
	return &rustExtractor{language: sitter.NewLanguage(rust.Language())}
}

func (e *rustExtractor) Language() string { return "rust" }

func (e *rustExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
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

	fs := &FileSymbols{FilePath: filePath, Language: "rust"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "use_declaration":
			start, _ := lineRange(n)
			fs.Imports = append(fs.Imports, Import{Path: nodeText(n, content), StartLine: start})
			fs.ImportsCount++
			return false
		case "struct_item":
			e.extractTyped(n, content, fs, "struct")
		case "enum_item":
			e.extractTyped(n, content, fs, "enum")
		case "trait_item":
			e.extractTyped(n, content, fs, "trait")
		case "impl_item":
			e.extractImpl(n, content, fs)
		case "function_item":
			if isTopLevel(n, "impl_item", "function_item") {
				e.extractFunction(n, content, fs, "")
			}
		case "call_expression":
			if fnNode := n.ChildByFieldName("function"); fnNode != nil {
				_, end := lineRange(n)
				fs.Calls = append(fs.Calls, Call{
					Caller: enclosingName(n, content, "function_item"),
					Callee: callName(fnNode, content),
					Line:   end,
				})
			}
		}
		return true
	})

	return fs, nil
}

func (e *rustExtractor) extractTyped(n *sitter.Node, source []byte, fs *FileSymbols, tag string) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	start, end := lineRange(n)
	fs.Symbols = append(fs.Symbols, Symbol{Name: nodeText(nameNode, source), Kind: KindType, TypeTag: tag, StartLine: start, EndLine: end})
}

func (e *rustExtractor) extractImpl(n *sitter.Node, source []byte, fs *FileSymbols) {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	typeName := nodeText(typeNode, source)

	if traitNode := n.ChildByFieldName("trait"); traitNode != nil {
		fs.Relationships = append(fs.Relationships, Relationship{From: typeName, To: nodeText(traitNode, source), Kind: "implements"})
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child == nil || child.Kind() != "function_item" {
			continue
		}
		e.extractFunction(child, source, fs, typeName)
	}
}

func (e *rustExtractor) extractFunction(n *sitter.Node, source []byte, fs *FileSymbols, owner string) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	start, end := lineRange(n)
	kind, tag := KindFunction, "function"
	if owner != "" {
		kind, tag = KindMethod, "method"
	}
	fs.Symbols = append(fs.Symbols, Symbol{
		Name: nodeText(nameNode, source), Kind: kind, TypeTag: tag, Owner: owner,
		Signature: methodSignature(n, source), StartLine: start, EndLine: end,
	})
}
