package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

type rubyExtractor struct {
	language *sitter.Language
}

// NewRubyExtractor builds the Ruby structural extractor, grounded on the
// teacher's internal/indexer/parsers/ruby.go: class/module/method nodes,
// generalized with require/require_relative import extraction, superclass
// relationships, and call sites.
func NewRubyExtractor() Extractor {
	return &rubyExtractor{language: sitter.NewLanguage(ruby.Language())}
}

func (e *rubyExtractor) Language() string { return "ruby" }

func (e *rubyExtractor) Extract(content []byte, filePath string) (*FileSymbols, error) {
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

	fs := &FileSymbols{FilePath: filePath, Language: "ruby"}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "call":
			if method := n.ChildByFieldName("method"); method != nil {
				name := nodeText(method, content)
				if name == "require" || name == "require_relative" {
					start, _ := lineRange(n)
					fs.Imports = append(fs.Imports, Import{Path: nodeText(n, content), StartLine: start})
					fs.ImportsCount++
					return false
				}
				_, end := lineRange(n)
				fs.Calls = append(fs.Calls, Call{
					Caller: enclosingName(n, content, "method", "class", "module"),
					Callee: name,
					Line:   end,
				})
			}
		case "class":
			e.extractClass(n, content, fs)
		case "module":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				name := nodeText(nameNode, content)
				start, end := lineRange(n)
				fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindType, TypeTag: "module", StartLine: start, EndLine: end})
				e.extractMethodsFromBody(n, content, fs, name)
			}
		case "method":
			if isTopLevel(n, "class", "module", "method") {
				e.extractMethod(n, content, fs, "")
			}
		}
		return true
	})

	return fs, nil
}

func (e *rubyExtractor) extractClass(n *sitter.Node, source []byte, fs *FileSymbols) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	start, end := lineRange(n)
	fs.Symbols = append(fs.Symbols, Symbol{Name: name, Kind: KindType, TypeTag: "class", StartLine: start, EndLine: end})

	if super := n.ChildByFieldName("superclass"); super != nil {
		fs.Relationships = append(fs.Relationships, Relationship{From: name, To: strings.TrimSpace(strings.TrimPrefix(nodeText(super, source), "<")), Kind: "extends"})
	}

	e.extractMethodsFromBody(n, source, fs, name)
}

// extractMethodsFromBody finds a class/module's methods, which tree-sitter-ruby
// wraps in an intervening body_statement node rather than attaching them as
// direct children, matching the teacher's extractMethodsFromClass.
func (e *rubyExtractor) extractMethodsFromBody(n *sitter.Node, source []byte, fs *FileSymbols, owner string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "method":
			e.extractMethod(child, source, fs, owner)
		case "body_statement":
			for j := 0; j < int(child.ChildCount()); j++ {
				bodyChild := child.Child(uint(j))
				if bodyChild != nil && bodyChild.Kind() == "method" {
					e.extractMethod(bodyChild, source, fs, owner)
				}
			}
		}
	}
}

func (e *rubyExtractor) extractMethod(n *sitter.Node, source []byte, fs *FileSymbols, owner string) {
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
		StartLine: start, EndLine: end,
	})
}
