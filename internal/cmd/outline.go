package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/salmonumbrella/draftpm/internal/convert"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// docOutline renders a document tree as an indented outline for text output.
type docOutline struct {
	doc *pm.Node
}

func (o docOutline) WriteText(w io.Writer) error {
	var sb strings.Builder
	renderOutline(&sb, o.doc, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// renderOutline writes one line per node, children indented below their parent.
func renderOutline(sb *strings.Builder, n *pm.Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Type)
	if attrs := formatAttrs(n.Attrs); attrs != "" {
		sb.WriteString(" ")
		sb.WriteString(attrs)
	}
	if n.Type == pm.TypeText {
		fmt.Fprintf(sb, " %q", n.Text)
		if len(n.Marks) > 0 {
			names := make([]string, 0, len(n.Marks))
			for _, m := range n.Marks {
				names = append(names, m.Type)
			}
			sb.WriteString(" [")
			sb.WriteString(strings.Join(names, ", "))
			sb.WriteString("]")
		}
	}
	sb.WriteString("\n")

	for _, child := range n.Content {
		renderOutline(sb, child, depth+1)
	}
}

func formatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if attrs[k] == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// conversionReport is a conversion plus its diagnostics, as printed by
// convert --with-diagnostics.
type conversionReport struct {
	Doc       *pm.Node           `json:"doc" yaml:"doc"`
	Unmatched *convert.Unmatched `json:"unmatched" yaml:"unmatched"`
	Converted int                `json:"converted" yaml:"converted"`
	Total     int                `json:"total" yaml:"total"`
}

func newConversionReport(c *convert.Conversion, total int) conversionReport {
	return conversionReport{
		Doc:       c.Doc,
		Unmatched: c.Unmatched,
		Converted: c.Converted,
		Total:     total,
	}
}

func (r conversionReport) WriteText(w io.Writer) error {
	if err := (docOutline{doc: r.Doc}).WriteText(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	if err != nil {
		return err
	}
	return writeUnmatchedText(w, r.Unmatched, r.Converted, r.Total)
}

// writeUnmatchedText prints the diagnostics summary shared by convert and
// diagnose.
func writeUnmatchedText(w io.Writer, u *convert.Unmatched, converted, total int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Converted %d of %d blocks\n", converted, total)
	if u.Empty() && (u == nil || len(u.Faults) == 0) {
		sb.WriteString("Nothing unmatched\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	if len(u.Blocks) > 0 {
		fmt.Fprintf(&sb, "\nUnmatched blocks (%d):\n", len(u.Blocks))
		for _, b := range u.Blocks {
			fmt.Fprintf(&sb, "  - [%s] %s %s\n", b.Key, b.Type, truncate(b.Text, 60))
		}
	}
	if len(u.Entities) > 0 {
		fmt.Fprintf(&sb, "\nUnmatched entities (%d):\n", len(u.Entities))
		for _, k := range sortedEntityKeys(u) {
			e := u.Entities[k]
			entityType := e.Type
			if entityType == "" {
				entityType = "(missing)"
			}
			fmt.Fprintf(&sb, "  - %s: %s\n", k, entityType)
		}
	}
	if len(u.InlineStyles) > 0 {
		fmt.Fprintf(&sb, "\nUnmatched inline styles (%d):\n", len(u.InlineStyles))
		for _, r := range u.InlineStyles {
			fmt.Fprintf(&sb, "  - %s at %d+%d\n", r.Style, r.Offset, r.Length)
		}
	}
	if len(u.Faults) > 0 {
		fmt.Fprintf(&sb, "\nHandler faults (%d):\n", len(u.Faults))
		for _, f := range u.Faults {
			fmt.Fprintf(&sb, "  - block %d %s %s: %s\n", f.BlockIndex, f.Stage, f.Kind, f.Message)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// truncate shortens s to max runes, flattening newlines.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func sortedEntityKeys(u *convert.Unmatched) []string {
	keys := make([]string, 0, len(u.Entities))
	for k := range u.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
