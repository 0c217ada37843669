package convert

import (
	"sort"

	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// resolvedRange is a style or entity range after registry lookup.
type resolvedRange struct {
	offset int
	length int
	mark   pm.Mark
	ok     bool
}

// Split cuts the block text into the fewest text nodes such that every node
// is covered by exactly the same set of ranges. Each node carries the marks
// of its covering ranges; ranges that do not resolve are recorded as
// unmatched and contribute no mark. Offsets count Unicode code points.
func (s *Session) Split(block draft.Block) []*pm.Node {
	ranges := s.resolveRanges(block)
	text := []rune(block.Text)
	if len(text) == 0 {
		return nil
	}

	// covering[i] lists the indexes into ranges that cover code point i, in
	// ascending order.
	covering := make([][]int, len(text))
	for i, r := range ranges {
		start, end := clampSpan(r.offset, r.length, len(text))
		for pos := start; pos < end; pos++ {
			covering[pos] = append(covering[pos], i)
		}
	}

	var nodes []*pm.Node
	runStart := 0
	active := covering[0]
	for pos := 1; pos < len(text); pos++ {
		if sameRangeSet(covering[pos], active) {
			continue
		}
		nodes = appendRun(nodes, text[runStart:pos], active, ranges)
		runStart = pos
		active = covering[pos]
	}
	return appendRun(nodes, text[runStart:], active, ranges)
}

// Inline returns the inline content of a block: a single text node when the
// block has no ranges, the Split runs otherwise.
func (s *Session) Inline(block draft.Block) []*pm.Node {
	if !block.HasRanges() {
		if text := pm.NewText(block.Text); text != nil {
			return []*pm.Node{text}
		}
		return nil
	}
	return s.Split(block)
}

// resolveRanges resolves every range of the block once, entity ranges first,
// and orders them by offset with shorter ranges first on ties.
func (s *Session) resolveRanges(block draft.Block) []resolvedRange {
	ranges := make([]resolvedRange, 0, len(block.EntityRanges)+len(block.InlineStyleRanges))
	for _, r := range block.EntityRanges {
		mark, ok := s.EntityMark(block, r)
		ranges = append(ranges, resolvedRange{offset: r.Offset, length: r.Length, mark: mark, ok: ok})
	}
	for _, r := range block.InlineStyleRanges {
		mark, ok := s.StyleMark(block, r)
		ranges = append(ranges, resolvedRange{offset: r.Offset, length: r.Length, mark: mark, ok: ok})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].offset == ranges[j].offset {
			return ranges[i].length < ranges[j].length
		}
		return ranges[i].offset < ranges[j].offset
	})
	return ranges
}

func appendRun(nodes []*pm.Node, text []rune, active []int, ranges []resolvedRange) []*pm.Node {
	var marks []pm.Mark
	for _, idx := range active {
		r := ranges[idx]
		if !r.ok || containsMark(marks, r.mark) {
			continue
		}
		marks = append(marks, pm.NewMark(r.mark.Type, cloneAttrs(r.mark.Attrs)))
	}
	if node := pm.NewText(string(text), marks...); node != nil {
		nodes = append(nodes, node)
	}
	return nodes
}

func sameRangeSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsMark(marks []pm.Mark, m pm.Mark) bool {
	for _, existing := range marks {
		if existing.Equal(m) {
			return true
		}
	}
	return false
}

func clampSpan(offset, length, size int) (int, int) {
	start := offset
	if start < 0 {
		start = 0
	}
	end := offset + length
	if end > size {
		end = size
	}
	if end < start {
		end = start
	}
	return start, end
}
