package symbols

import sitter "github.com/tree-sitter/go-tree-sitter"

// walkTree visits node and every descendant depth-first, pre-order. visit
// returns false to skip a node's children (used when a language's extractor
// handles a subtree itself, e.g. an import statement).
func walkTree(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visit)
	}
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func lineRange(n *sitter.Node) (start, end int) {
	return int(n.StartPosition().Row) + 1, int(n.EndPosition().Row) + 1
}

// isTopLevel reports whether node's ancestors never pass through any of the
// given container node kinds before reaching the root.
func isTopLevel(node *sitter.Node, containerKinds ...string) bool {
	parent := node.Parent()
	for parent != nil {
		k := parent.Kind()
		for _, ck := range containerKinds {
			if k == ck {
				return false
			}
		}
		parent = parent.Parent()
	}
	return true
}

// enclosingName walks up from node looking for the nearest ancestor of one of
// containerKinds and returns its "name" field's text, or "" if none is found.
func enclosingName(node *sitter.Node, source []byte, containerKinds ...string) string {
	parent := node.Parent()
	for parent != nil {
		k := parent.Kind()
		for _, ck := range containerKinds {
			if k == ck {
				if nameNode := parent.ChildByFieldName("name"); nameNode != nil {
					return nodeText(nameNode, source)
				}
				return ""
			}
		}
		parent = parent.Parent()
	}
	return ""
}
