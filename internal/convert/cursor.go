package convert

import "github.com/salmonumbrella/draftpm/internal/draft"

// Cursor is a read position over the block sequence. It is a value: moving
// returns a new cursor and leaves the receiver untouched.
type Cursor struct {
	blocks []draft.Block
	index  int
}

// NewCursor returns a cursor on the first block.
func NewCursor(blocks []draft.Block) Cursor {
	return Cursor{blocks: blocks}
}

// Index returns the current position.
func (c Cursor) Index() int { return c.index }

// SetIndex returns a cursor at position i.
func (c Cursor) SetIndex(i int) Cursor {
	c.index = i
	return c
}

// Len returns the number of blocks.
func (c Cursor) Len() int { return len(c.blocks) }

// Done reports whether the cursor is past the last block.
func (c Cursor) Done() bool { return c.index < 0 || c.index >= len(c.blocks) }

// Current returns the block under the cursor.
func (c Cursor) Current() (draft.Block, bool) {
	return c.at(c.index)
}

// Peek returns the block after the cursor without moving.
func (c Cursor) Peek() (draft.Block, bool) {
	return c.at(c.index + 1)
}

// PeekPrev returns the block before the cursor without moving.
func (c Cursor) PeekPrev() (draft.Block, bool) {
	return c.at(c.index - 1)
}

// Next advances by one and returns the block that was current before moving.
func (c Cursor) Next() (Cursor, draft.Block, bool) {
	block, ok := c.Current()
	c.index++
	return c, block, ok
}

// Prev retreats by one and returns the block that was current before moving.
func (c Cursor) Prev() (Cursor, draft.Block, bool) {
	block, ok := c.Current()
	c.index--
	return c, block, ok
}

func (c Cursor) at(i int) (draft.Block, bool) {
	if i < 0 || i >= len(c.blocks) {
		return draft.Block{}, false
	}
	return c.blocks[i], true
}
