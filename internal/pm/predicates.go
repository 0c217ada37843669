package pm

// IsDocument reports whether v is a document root.
func IsDocument(v any) bool {
	n := asNode(v)
	return n != nil && n.Type == TypeDoc
}

// IsText reports whether v is a text leaf.
func IsText(v any) bool {
	n := asNode(v)
	return n != nil && n.Type == TypeText
}

// IsNode reports whether v is a non-text node.
func IsNode(v any) bool {
	n := asNode(v)
	return n != nil && n.Type != "" && n.Type != TypeText
}

// IsList reports whether n is a bullet, ordered or task list.
func IsList(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case TypeBulletList, TypeOrderedList, TypeTaskList:
		return true
	default:
		return false
	}
}

// asNode accepts *Node, Node and decoded JSON objects.
func asNode(v any) *Node {
	switch n := v.(type) {
	case *Node:
		return n
	case Node:
		return &n
	case map[string]any:
		typ, ok := n["type"].(string)
		if !ok {
			return nil
		}
		return &Node{Type: typ}
	default:
		return nil
	}
}
