package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

func testSession(t *testing.T, content draft.Content, opts ...Option) *Session {
	t.Helper()
	return New(opts...).newSession(content)
}

func style(offset, length int, name string) draft.StyleRange {
	return draft.StyleRange{Offset: offset, Length: length, Style: name}
}

func entity(offset, length int, key string) draft.EntityRange {
	return draft.EntityRange{Offset: offset, Length: length, Key: draft.EntityKey(key)}
}

func joinText(nodes []*pm.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

func markTypes(n *pm.Node) []string {
	out := make([]string, 0, len(n.Marks))
	for _, m := range n.Marks {
		out = append(out, m.Type)
	}
	return out
}

func TestSplitReproducesText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		styles []draft.StyleRange
	}{
		{name: "no ranges", text: "plain text"},
		{name: "full overlap", text: "overlap", styles: []draft.StyleRange{style(0, 7, "BOLD"), style(0, 7, "ITALIC")}},
		{name: "partial overlap", text: "abcdefgh", styles: []draft.StyleRange{style(0, 5, "BOLD"), style(3, 5, "ITALIC")}},
		{name: "nested", text: "abcdefgh", styles: []draft.StyleRange{style(0, 8, "BOLD"), style(2, 2, "CODE")}},
		{name: "out of bounds", text: "short", styles: []draft.StyleRange{style(3, 40, "BOLD"), style(-2, 3, "ITALIC")}},
		{name: "astral characters", text: "a😀b😀c", styles: []draft.StyleRange{style(1, 1, "BOLD"), style(3, 2, "ITALIC")}},
		{name: "unknown style", text: "keep me", styles: []draft.StyleRange{style(0, 4, "NOPE")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, draft.Content{})
			nodes := s.Split(draft.Block{Type: "unstyled", Text: tt.text, InlineStyleRanges: tt.styles})
			assert.Equal(t, tt.text, joinText(nodes))
			for _, n := range nodes {
				assert.NotEmpty(t, n.Text)
			}
		})
	}
}

func TestSplitMarksMatchCoveringRanges(t *testing.T) {
	s := testSession(t, draft.Content{})
	block := draft.Block{
		Type: "unstyled",
		Text: "abcdefgh",
		InlineStyleRanges: []draft.StyleRange{
			style(0, 5, "BOLD"),
			style(3, 5, "ITALIC"),
			style(6, 1, "UNKNOWN"),
		},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 5)

	assert.Equal(t, "abc", nodes[0].Text)
	assert.Equal(t, []string{MarkBold}, markTypes(nodes[0]))
	assert.Equal(t, "de", nodes[1].Text)
	assert.ElementsMatch(t, []string{MarkBold, MarkItalic}, markTypes(nodes[1]))
	assert.Equal(t, "f", nodes[2].Text)
	assert.Equal(t, []string{MarkItalic}, markTypes(nodes[2]))
	// the unknown style still splits the run even though it adds no mark
	assert.Equal(t, "g", nodes[3].Text)
	assert.Equal(t, []string{MarkItalic}, markTypes(nodes[3]))
	assert.Equal(t, "h", nodes[4].Text)
	assert.Equal(t, []string{MarkItalic}, markTypes(nodes[4]))
}

func TestSplitSetEqualityNotSize(t *testing.T) {
	s := testSession(t, draft.Content{})
	block := draft.Block{
		Type:              "unstyled",
		Text:              "abcd",
		InlineStyleRanges: []draft.StyleRange{style(0, 2, "BOLD"), style(2, 2, "ITALIC")},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 2)
	assert.Equal(t, []string{MarkBold}, markTypes(nodes[0]))
	assert.Equal(t, []string{MarkItalic}, markTypes(nodes[1]))
}

func TestSplitCountsCodePoints(t *testing.T) {
	s := testSession(t, draft.Content{})
	block := draft.Block{
		Type:              "unstyled",
		Text:              "\u00e9😀x",
		InlineStyleRanges: []draft.StyleRange{style(1, 1, "BOLD")},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 3)
	assert.Equal(t, "\u00e9", nodes[0].Text)
	assert.Equal(t, "😀", nodes[1].Text)
	assert.Equal(t, []string{MarkBold}, markTypes(nodes[1]))
	assert.Equal(t, "x", nodes[2].Text)
}

func TestSplitEntityAndStyleMarks(t *testing.T) {
	content := draft.Content{EntityMap: map[string]draft.Entity{
		"0": {Type: "LINK", Data: map[string]any{"url": "https://example.com"}},
	}}
	s := testSession(t, content)
	block := draft.Block{
		Type:              "unstyled",
		Text:              "go here",
		InlineStyleRanges: []draft.StyleRange{style(3, 4, "BOLD")},
		EntityRanges:      []draft.EntityRange{entity(3, 4, "0")},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 2)
	assert.Empty(t, nodes[0].Marks)
	require.Len(t, nodes[1].Marks, 2)
	assert.Equal(t, MarkLink, nodes[1].Marks[0].Type)
	assert.Equal(t, "https://example.com", nodes[1].Marks[0].Attrs["href"])
	assert.Equal(t, MarkBold, nodes[1].Marks[1].Type)
	assert.True(t, s.Unmatched().Empty())
}

func TestSplitCollapsesDuplicateMarks(t *testing.T) {
	s := testSession(t, draft.Content{})
	block := draft.Block{
		Type:              "unstyled",
		Text:              "dup",
		InlineStyleRanges: []draft.StyleRange{style(0, 3, "CODE"), style(0, 3, "KEYBOARD")},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 1)
	assert.Equal(t, []pm.Mark{{Type: MarkCode}}, nodes[0].Marks)
}

func TestSplitPrefixRules(t *testing.T) {
	s := testSession(t, draft.Content{})
	block := draft.Block{
		Type: "unstyled",
		Text: "colored",
		InlineStyleRanges: []draft.StyleRange{
			style(0, 7, "bgcolor-#ff0"),
			style(0, 7, "fontfamily-Serif"),
		},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 1)
	assert.Equal(t, []pm.Mark{
		{Type: MarkHighlight, Attrs: map[string]any{"color": "#ff0"}},
		{Type: MarkTextStyle, Attrs: map[string]any{"fontFamily": "Serif"}},
	}, nodes[0].Marks)
}

func TestSplitUnknownStyleRecorded(t *testing.T) {
	s := testSession(t, draft.Content{})
	unknown := style(0, 2, "SPARKLE")
	nodes := s.Split(draft.Block{Type: "unstyled", Text: "hi", InlineStyleRanges: []draft.StyleRange{unknown}})

	require.Len(t, nodes, 1)
	assert.Equal(t, "hi", nodes[0].Text)
	assert.Empty(t, nodes[0].Marks)
	assert.Equal(t, []draft.StyleRange{unknown}, s.Unmatched().InlineStyles)
}

func TestSplitEmptyTextStillResolvesRanges(t *testing.T) {
	s := testSession(t, draft.Content{})
	nodes := s.Split(draft.Block{Type: "unstyled", InlineStyleRanges: []draft.StyleRange{style(0, 1, "SPARKLE")}})

	assert.Empty(t, nodes)
	assert.Len(t, s.Unmatched().InlineStyles, 1)
}

func TestSplitMarksAreFreshPerRun(t *testing.T) {
	content := draft.Content{EntityMap: map[string]draft.Entity{
		"0": {Type: "LINK", Data: map[string]any{"url": "u"}},
	}}
	s := testSession(t, content)
	block := draft.Block{
		Type:              "unstyled",
		Text:              "abc",
		InlineStyleRanges: []draft.StyleRange{style(1, 1, "BOLD")},
		EntityRanges:      []draft.EntityRange{entity(0, 3, "0")},
	}

	nodes := s.Split(block)
	require.Len(t, nodes, 3)
	nodes[0].Marks[0].Attrs["href"] = "changed"
	assert.Equal(t, "u", nodes[2].Marks[0].Attrs["href"])
}

func TestInlineFastPath(t *testing.T) {
	s := testSession(t, draft.Content{})
	nodes := s.Inline(draft.Block{Type: "unstyled", Text: "plain"})
	require.Len(t, nodes, 1)
	assert.Equal(t, "plain", nodes[0].Text)

	assert.Empty(t, s.Inline(draft.Block{Type: "unstyled"}))
}
