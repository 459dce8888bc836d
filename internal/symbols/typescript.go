package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type typeScriptExtractor struct {
	language *sitter.Language
}

// NewTypeScriptExtractor builds the TypeScript/JavaScript structural
// extractor, grounded on the teacher's
// internal/indexer/parsers/typescript.go: class/interface/type-alias/
// function declarations, generalized with import-name extraction,
// extends/implements relationships via a class's heritage clause, and
// call_expression call sites the teacher's extractor does not track.
func NewTypeScriptExtractor() Extractor {
	return &typeScriptExtractor{language: sitter.NewLanguage(typescript.LanguageTypescript())}
}

func (e *typeScriptExtractor) Language() string { return "typescript" }

func (e *typeScriptExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
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

	fs := &FileSymbols{FilePath: filePath, Language: "typescript"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			if srcNode := n.ChildByFieldName("source"); srcNode != nil {
				start, _ := lineRange(n)
				fs.Imports = append(fs.Imports, Import{Path: trimQuotes(nodeText(srcNode, content)), StartLine: start})
				fs.ImportsCount++
			}
			return false
		case "class_declaration":
			e.extractClass(n, content, fs)
		case "interface_declaration", "type_alias_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				start, end := lineRange(n)
				tag := "interface"
				if n.Kind() == "type_alias_declaration" {
					tag = "type_alias"
				}
				fs.Symbols = append(fs.Symbols, Symbol{Name: nodeText(nameNode, content), Kind: KindType, TypeTag: tag, StartLine: start, EndLine: end})
			}
		case "function_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				start, end := lineRange(n)
				fs.Symbols = append(fs.Symbols, Symbol{
					Name: nodeText(nameNode, content), Kind: KindFunction, TypeTag: "function",
					Signature: methodSignature(n, content), StartLine: start, EndLine: end,
				})
			}
		case "call_expression":
			if fnNode := n.ChildByFieldName("function"); fnNode != nil {
				_, end := lineRange(n)
				fs.Calls = append(fs.Calls, Call{
					Caller: enclosingName(n, content, "function_declaration", "method_definition"),
					Callee: callName(fnNode, content),
					Line:   end,
				})
			}
		}
		return true
	})

	return fs, nil
}

func (e *typeScriptExtractor) extractClass(n *sitter.Node, source []byte, fs *FileSymbols) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	start, end := lineRange(n)
	fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindType, TypeTag: "class", StartLine: start, EndLine: end})

	if heritage := n.ChildByFieldName("heritage"); heritage != nil {
		walkTree(heritage, func(c *sitter.Node) bool {
			switch c.Kind() {
			case "class_heritage":
				return true
			case "extends_clause":
				for i := 0; i < int(c.ChildCount()); i++ {
					if t := c.Child(uint(i)); t != nil && t.Kind() == "identifier" {
						fs.Relationships = append(fs.Relationships, Relationship{From: name, To: nodeText(t, source), Kind: "extends"})
					}
				}
			case "implements_clause":
				for i := 0; i < int(c.ChildCount()); i++ {
					if t := c.Child(uint(i)); t != nil && t.Kind() == "type_identifier" {
						fs.Relationships = append(fs.Relationships, Relationship{From: name, To: nodeText(t, source), Kind: "implements"})
					}
				}
			}
			return false
		})
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child == nil || child.Kind() != "method_definition" {
			continue
		}
		mNameNode := child.ChildByFieldName("name")
		if mNameNode == nil {
			continue
		}
		mStart, mEnd := lineRange(child)
		fs.Symbols = append(fs.Symbols, Symbol{
			Name: nodeText(mNameNode, source), Kind: KindMethod, TypeTag: "method", Owner: name,
			Signature: methodSignature(child, source), StartLine: mStart, EndLine: mEnd,
		})
	}
}

// callName extracts the bare callee name from a call's "function" node,
// unwrapping the property/attribute access a method call is wrapped in
// across the languages that share this helper (JS/TS member_expression,
// Python/Ruby attribute/call access).
func callName(fnNode *sitter.Node, source []byte) string {
	switch fnNode.Kind() {
	case "member_expression":
		if prop := fnNode.ChildByFieldName("property"); prop != nil {
			return nodeText(prop, source)
		}
	case "attribute":
		if attr := fnNode.ChildByFieldName("attribute"); attr != nil {
			return nodeText(attr, source)
		}
	}
	return nodeText(fnNode, source)
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
