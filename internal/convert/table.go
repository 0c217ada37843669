package convert

import (
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// Table groups consecutive table-cell blocks into rows. Cell depth counts up
// by one along a row; any other step starts a new row.
func Table(s *Session, cur Cursor) (Outcome, Cursor) {
	table := pm.NewNode(pm.TypeTable, nil)
	var row *pm.Node
	prev, _ := cur.Current()

	for {
		block, _ := cur.Current()
		if row == nil || prev.Depth+1 != block.Depth {
			row = pm.NewNode(pm.TypeTableRow, nil)
			pm.AddChild(table, row)
		}

		para := pm.NewNode(pm.TypeParagraph, nil, s.Inline(block)...)
		pm.AddChild(row, pm.NewNode(pm.TypeTableCell, nil, para))

		next, ok := cur.Peek()
		if !ok || next.Type != block.Type {
			break
		}
		cur, prev, _ = cur.Next()
	}

	return Emit(table), cur
}
