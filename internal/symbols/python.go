package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

type pythonExtractor struct {
	language *sitter.Language
}

// NewPythonExtractor builds the Python structural extractor, grounded on the
// teacher's internal/indexer/parsers/python.go: class/function definitions at
// module level, generalized with import-name extraction, base-class
// relationships, and call sites the teacher's extractor does not track.
func NewPythonExtractor() Extractor {
	return &pythonExtractor{language: sitter.NewLanguage(python.Language())}
}

func (e *pythonExtractor) Language() string { return "python" }

func (e *pythonExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
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

	fs := &FileSymbols{FilePath: filePath, Language: "python"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement", "import_from_statement":
			start, _ := lineRange(n)
			fs.Imports = append(fs.Imports, Import{Path: pythonImportPath(n, content), StartLine: start})
			fs.ImportsCount++
			return false
		case "class_definition":
			e.extractClass(n, content, fs)
		case "function_definition":
			if isTopLevel(n, "class_definition", "function_definition") {
				e.extractFunction(n, content, fs, "")
			}
		case "call":
			if fnNode := n.ChildByFieldName("function"); fnNode != nil {
				_, end := lineRange(n)
				fs.Calls = append(fs.Calls, Call{
					Caller: enclosingName(n, content, "function_definition", "class_definition"),
					Callee: callName(fnNode, content),
					Line:   end,
				})
			}
		}
		return true
	})

	return fs, nil
}

func (e *pythonExtractor) extractClass(n *sitter.Node, source []byte, fs *FileSymbols) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	start, end := lineRange(n)
	fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindType, TypeTag: "class", StartLine: start, EndLine: end})

	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		walkTree(bases, func(c *sitter.Node) bool {
			if c.Kind() == "identifier" {
				fs.Relationships = append(fs.Relationships, Relationship{From: name, To: nodeText(c, source), Kind: "extends"})
			}
			return true
		})
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child == nil || child.Kind() != "function_definition" {
			continue
		}
		e.extractFunction(child, source, fs, name)
	}
}

func pythonImportPath(n *sitter.Node, source []byte) string {
	if n.Kind() == "import_from_statement" {
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			return nodeText(mod, source)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(uint(i))
		if c != nil && (c.Kind() == "dotted_name" || c.Kind() == "aliased_import") {
			return nodeText(c, source)
		}
	}
	return nodeText(n, source)
}

func (e *pythonExtractor) extractFunction(n *sitter.Node, source []byte, fs *FileSymbols, owner string) {
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
