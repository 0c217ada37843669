package convert

import (
	"strings"

	"github.com/salmonumbrella/draftpm/internal/pm"
)

// BlockHandler converts the block under cur. It returns what it produced and
// the cursor positioned on the last block it consumed; handlers that read a
// single block return cur unchanged.
type BlockHandler func(s *Session, cur Cursor) (Outcome, Cursor)

// Draft.js block types with built-in handlers.
const (
	BlockUnstyled          = "unstyled"
	BlockParagraph         = "paragraph"
	BlockSection           = "section"
	BlockArticle           = "article"
	BlockHeaderOne         = "header-one"
	BlockHeaderTwo         = "header-two"
	BlockHeaderThree       = "header-three"
	BlockHeaderFour        = "header-four"
	BlockHeaderFive        = "header-five"
	BlockHeaderSix         = "header-six"
	BlockBlockquote        = "blockquote"
	BlockCode              = "code-block"
	BlockAtomic            = "atomic"
	BlockUnorderedListItem = "unordered-list-item"
	BlockOrderedListItem   = "ordered-list-item"
	BlockCheckableListItem = "checkable-list-item"
	BlockTableCell         = "table-cell"
)

// DefaultBlockHandlers returns the built-in block type mapping.
func DefaultBlockHandlers() map[string]BlockHandler {
	return map[string]BlockHandler{
		BlockUnstyled:          Paragraph,
		BlockParagraph:         Paragraph,
		BlockSection:           Paragraph,
		BlockArticle:           Paragraph,
		BlockHeaderOne:         Heading,
		BlockHeaderTwo:         Heading,
		BlockHeaderThree:       Heading,
		BlockHeaderFour:        Heading,
		BlockHeaderFive:        Heading,
		BlockHeaderSix:         Heading,
		BlockBlockquote:        Blockquote,
		BlockCode:              CodeBlock,
		BlockAtomic:            Atomic,
		BlockUnorderedListItem: List,
		BlockOrderedListItem:   List,
		BlockCheckableListItem: List,
		BlockTableCell:         Table,
	}
}

// Paragraph converts a block into a paragraph.
func Paragraph(s *Session, cur Cursor) (Outcome, Cursor) {
	block, _ := cur.Current()
	return Emit(pm.NewNode(pm.TypeParagraph, nil, s.Inline(block)...)), cur
}

var headingLevels = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
}

// HeadingLevel maps a header-<n> block type to a level; anything else is 1.
func HeadingLevel(blockType string) int {
	suffix := strings.TrimPrefix(blockType, "header-")
	if level, ok := headingLevels[suffix]; ok {
		return level
	}
	return 1
}

// Heading converts a header-* block into a heading.
func Heading(s *Session, cur Cursor) (Outcome, Cursor) {
	block, _ := cur.Current()
	attrs := map[string]any{"level": HeadingLevel(block.Type)}
	return Emit(pm.NewNode(pm.TypeHeading, attrs, s.Split(block)...)), cur
}

// Blockquote wraps the block content in a blockquote paragraph.
func Blockquote(s *Session, cur Cursor) (Outcome, Cursor) {
	block, _ := cur.Current()
	para := pm.NewNode(pm.TypeParagraph, nil, s.Split(block)...)
	return Emit(pm.NewNode(pm.TypeBlockquote, nil, para)), cur
}

// CodeBlock keeps the raw block text. Its style and entity ranges are not
// rendered and are reported as unmatched.
func CodeBlock(s *Session, cur Cursor) (Outcome, Cursor) {
	block, _ := cur.Current()
	s.dropStyles(block)
	s.dropEntities(block)
	return Emit(pm.NewNode(pm.TypeCodeBlock, nil, pm.NewText(block.Text))), cur
}

// Atomic converts an entity block. Without ranges the text becomes a
// paragraph. Otherwise every entity range that resolves to a node goes, in
// order, into one paragraph; when none resolves the block is unhandled.
// Style ranges are not rendered and are reported as unmatched.
func Atomic(s *Session, cur Cursor) (Outcome, Cursor) {
	block, _ := cur.Current()
	if !block.HasRanges() {
		return Emit(pm.NewNode(pm.TypeParagraph, nil, pm.NewText(block.Text))), cur
	}

	var nodes []*pm.Node
	for _, r := range block.EntityRanges {
		if node := s.EntityNode(block, r); node != nil {
			nodes = append(nodes, node)
		}
	}
	if len(nodes) == 0 {
		return Unhandled(), cur
	}
	s.dropStyles(block)
	return Emit(pm.NewNode(pm.TypeParagraph, nil, nodes...)), cur
}
