package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

type phpExtractor struct {
	language *sitter.Language
}

// NewPHPExtractor builds the PHP structural extractor, grounded on the
// teacher's internal/indexer/parsers/php.go: class/interface/trait
// declarations and their methods, generalized with use-statement import
// extraction, extends/implements relationships, and call sites.
func NewPHPExtractor() Extractor {
	return &phpExtractor{language: sitter.NewLanguage(php.LanguagePHP())}
}

func (e *phpExtractor) Language() string { return "php" }

func (e *phpExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
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

	fs := &FileSymbols{FilePath: filePath, Language: "php"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "namespace_use_declaration":
			start, _ := lineRange(n)
			fs.Imports = append(fs.Imports, Import{Path: nodeText(n, content), StartLine: start})
			fs.ImportsCount++
			return false
		case "class_declaration":
			e.extractClass(n, content, fs)
		case "interface_declaration", "trait_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				start, end := lineRange(n)
				tag := "interface"
				if n.Kind() == "trait_declaration" {
					tag = "trait"
				}
				fs.Symbols = append(fs.Symbols, Symbol{Name: nodeText(nameNode, content), Kind: KindType, TypeTag: tag, StartLine: start, EndLine: end})
			}
		case "function_definition":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				start, end := lineRange(n)
				fs.Symbols = append(fs.Symbols, Symbol{Name: nodeText(nameNode, content), Kind: KindFunction, TypeTag: "function", StartLine: start, EndLine: end})
			}
		case "function_call_expression":
			if fnNode := n.ChildByFieldName("function"); fnNode != nil {
				_, end := lineRange(n)
				fs.Calls = append(fs.Calls, Call{
					Caller: enclosingName(n, content, "function_definition", "method_declaration"),
					Callee: nodeText(fnNode, content),
					Line:   end,
				})
			}
		}
		return true
	})

	return fs, nil
}

func (e *phpExtractor) extractClass(n *sitter.Node, source []byte, fs *FileSymbols) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	start, end := lineRange(n)
	fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindType, TypeTag: "class", StartLine: start, EndLine: end})

	if base := n.ChildByFieldName("base_clause"); base != nil {
		walkTree(base, func(c *sitter.Node) bool {
			if c.Kind() == "name" {
				fs.Relationships = append(fs.Relationships, Relationship{From: name, To: nodeText(c, source), Kind: "extends"})
			}
			return true
		})
	}
	if iface := n.ChildByFieldName("interfaces"); iface != nil {
		walkTree(iface, func(c *sitter.Node) bool {
			if c.Kind() == "name" {
				fs.Relationships = append(fs.Relationships, Relationship{From: name, To: nodeText(c, source), Kind: "implements"})
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
		if child == nil || child.Kind() != "method_declaration" {
			continue
		}
		mNameNode := child.ChildByFieldName("name")
		if mNameNode == nil {
			continue
		}
		mStart, mEnd := lineRange(child)
		fs.Symbols = append(fs.Symbols, Symbol{
			Name: nodeText(mNameNode, source), Kind: KindMethod, TypeTag: "method", Owner: name,
			StartLine: mStart, EndLine: mEnd,
		})
	}
}
