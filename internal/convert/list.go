package convert

import (
	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

type listKind struct {
	list string
	item string
}

var listKinds = map[string]listKind{
	BlockUnorderedListItem: {list: pm.TypeBulletList, item: pm.TypeListItem},
	BlockOrderedListItem:   {list: pm.TypeOrderedList, item: pm.TypeListItem},
	BlockCheckableListItem: {list: pm.TypeTaskList, item: pm.TypeTaskItem},
}

// listKindOf maps a list block type to its node types. Custom types
// registered with the List handler become ordered lists.
func listKindOf(blockType string) listKind {
	if kind, ok := listKinds[blockType]; ok {
		return kind
	}
	return listKinds[BlockOrderedListItem]
}

// List rebuilds a nested list from a run of list-item blocks of one type and
// emits it once the run ends. Depth is relative to the previous item: a
// deeper item opens one nested list under the last item, a shallower one goes
// back to an ancestor list that already exists. A different list type always
// starts a new top-level list.
func List(s *Session, cur Cursor) (Outcome, Cursor) {
	first, _ := cur.Current()
	kind := listKindOf(first.Type)
	root := pm.NewNode(kind.list, nil)

	for {
		block, _ := cur.Current()
		appendListItem(s, root, kind, block)

		next, ok := cur.Peek()
		if !ok || next.Type != block.Type {
			break
		}
		cur, _, _ = cur.Next()
	}

	return Emit(root), cur
}

func appendListItem(s *Session, root *pm.Node, kind listKind, block draft.Block) {
	container := root
	for depth := 0; depth < block.Depth; depth++ {
		item := container.LastChild()
		if item == nil {
			// nothing to nest under; stay at this level
			break
		}
		if nested := item.LastChild(); pm.IsList(nested) {
			container = nested
			continue
		}
		nested := pm.NewNode(kind.list, nil)
		pm.AddChild(item, nested)
		container = nested
		break
	}

	var attrs map[string]any
	if kind.item == pm.TypeTaskItem {
		attrs = map[string]any{"checked": truthy(block.Data["checked"])}
	}
	para := pm.NewNode(pm.TypeParagraph, nil, s.Inline(block)...)
	pm.AddChild(container, pm.NewNode(kind.item, attrs, para))
}

// truthy follows the loose truthiness Draft.js data values are written with.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}
