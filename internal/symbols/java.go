package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

type javaExtractor struct {
	language *sitter.Language
}

// NewJavaExtractor builds the Java structural extractor, grounded on the
// teacher's internal/indexer/parsers/java.go: class/interface/enum/record
// declarations, their methods and constructors, plus imports, superclass/
// interface relationships, and method-call sites the teacher's extractor
// does not track.
func NewJavaExtractor() Extractor {
	return &javaExtractor{language: sitter.NewLanguage(java.Language())}
}

func (e *javaExtractor) Language() string { return "java" }

func (e *javaExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
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

	fs := &FileSymbols{FilePath: filePath, Language: "java"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "package_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				fs.PackageName = nodeText(nameNode, content)
			} else {
				fs.PackageName = importPath(n, content)
			}
			return false
		case "import_declaration":
			start, _ := lineRange(n)
			fs.Imports = append(fs.Imports, Import{Path: importPath(n, content), StartLine: start})
			fs.ImportsCount++
			return false
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			e.extractType(n, content, fs)
		case "method_invocation":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				_, end := lineRange(n)
				fs.Calls = append(fs.Calls, Call{
					Caller: enclosingName(n, content, "method_declaration", "constructor_declaration"),
					Callee: nodeText(nameNode, content),
					Line:   end,
				})
			}
		}
		return true
	})

	return fs, nil
}

func (e *javaExtractor) extractType(n *sitter.Node, source []byte, fs *FileSymbols) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	start, end := lineRange(n)

	tag := "class"
	switch n.Kind() {
	case "interface_declaration":
		tag = "interface"
	case "enum_declaration":
		tag = "enum"
	case "record_declaration":
		tag = "record"
	}
	fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindType, TypeTag: tag, StartLine: start, EndLine: end})

	if superclass := n.ChildByFieldName("superclass"); superclass != nil {
		fs.Relationships = append(fs.Relationships, Relationship{From: name, To: strings.TrimSpace(strings.TrimPrefix(nodeText(superclass, source), "extends")), Kind: "extends"})
	}
	if interfaces := n.ChildByFieldName("interfaces"); interfaces != nil {
		walkTree(interfaces, func(c *sitter.Node) bool {
			if c.Kind() == "type_identifier" {
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
		if child == nil {
			continue
		}
		var tag string
		var kind Kind
		switch child.Kind() {
		case "method_declaration":
			tag, kind = "method", KindMethod
		case "constructor_declaration":
			tag, kind = "constructor", KindMethod
		default:
			continue
		}
		mNameNode := child.ChildByFieldName("name")
		mName := name
		if mNameNode != nil {
			mName = nodeText(mNameNode, source)
		}
		mStart, mEnd := lineRange(child)
		fs.Symbols = append(fs.Symbols, Symbol{
			Name: mName, Kind: kind, TypeTag: tag, Owner: name,
			Signature: methodSignature(child, source), StartLine: mStart, EndLine: mEnd,
		})
	}
}

func methodSignature(n *sitter.Node, source []byte) string {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nodeText(n, source)
	}
	return string(source[n.StartByte():body.StartByte()])
}

func importPath(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(uint(i))
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "scoped_identifier", "identifier":
			return nodeText(c, source)
		}
	}
	return nodeText(n, source)
}
