package pm

// AddChildToList adds child to parent while keeping list structure intact.
//
// List items are appended as-is. Nested lists go under the last item when
// appendToLast is set and an item exists. Empty paragraphs are dropped.
// Anything else is wrapped in a new list item. When parent is not a list the
// child is appended directly.
func AddChildToList(parent, child *Node, appendToLast bool) {
	if child == nil {
		return
	}
	if !IsList(parent) {
		AddChild(parent, child)
		return
	}

	switch child.Type {
	case TypeListItem, TypeTaskItem:
		AddChild(parent, child)
		return
	case TypeBulletList, TypeOrderedList, TypeTaskList:
		if appendToLast {
			if last := parent.LastChild(); last != nil {
				AddChild(last, child)
				return
			}
		}
	case TypeParagraph:
		if len(child.Content) == 0 {
			return
		}
	}

	itemType := TypeListItem
	if parent.Type == TypeTaskList {
		itemType = TypeTaskItem
	}
	AddChild(parent, NewNode(itemType, nil, child))
}
