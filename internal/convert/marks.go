package convert

import (
	"strings"

	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// StyleHandler maps an inline style name to a mark. ok=false declines.
type StyleHandler func(style string) (mark pm.Mark, ok bool)

// PrefixRule maps every style starting with Prefix. Map receives the rest of
// the style name.
type PrefixRule struct {
	Prefix string
	Map    func(value string) (pm.Mark, bool)
}

// EntityMarkHandler maps an entity to a mark. ok=false declines.
type EntityMarkHandler func(e draft.Entity) (mark pm.Mark, ok bool)

// Mark types produced by the default registries.
const (
	MarkBold        = "bold"
	MarkCode        = "code"
	MarkItalic      = "italic"
	MarkStrike      = "strike"
	MarkUnderline   = "underline"
	MarkSubscript   = "subscript"
	MarkSuperscript = "superscript"
	MarkHighlight   = "highlight"
	MarkLink        = "link"
	MarkTextStyle   = "textStyle"
)

// StaticMark returns a handler that always yields a copy of m.
func StaticMark(m pm.Mark) StyleHandler {
	return func(string) (pm.Mark, bool) {
		return pm.NewMark(m.Type, cloneAttrs(m.Attrs)), true
	}
}

// DefaultStyles returns the built-in inline style mapping.
func DefaultStyles() map[string]StyleHandler {
	return map[string]StyleHandler{
		"BOLD":          StaticMark(pm.Mark{Type: MarkBold}),
		"CODE":          StaticMark(pm.Mark{Type: MarkCode}),
		"KEYBOARD":      StaticMark(pm.Mark{Type: MarkCode}),
		"ITALIC":        StaticMark(pm.Mark{Type: MarkItalic}),
		"STRIKETHROUGH": StaticMark(pm.Mark{Type: MarkStrike}),
		"UNDERLINE":     StaticMark(pm.Mark{Type: MarkUnderline}),
		"SUBSCRIPT":     StaticMark(pm.Mark{Type: MarkSubscript}),
		"SUPERSCRIPT":   StaticMark(pm.Mark{Type: MarkSuperscript}),
		"HIGHLIGHT":     StaticMark(pm.Mark{Type: MarkHighlight}),
	}
}

// DefaultStylePrefixes returns the built-in prefix rules, in lookup order.
func DefaultStylePrefixes() []PrefixRule {
	return []PrefixRule{
		{
			Prefix: "bgcolor-",
			Map: func(value string) (pm.Mark, bool) {
				return pm.NewMark(MarkHighlight, map[string]any{"color": value}), true
			},
		},
		{
			Prefix: "fontfamily-",
			Map: func(value string) (pm.Mark, bool) {
				return pm.NewMark(MarkTextStyle, map[string]any{"fontFamily": value}), true
			},
		},
	}
}

// DefaultEntityMarks returns the built-in entity to mark mapping.
func DefaultEntityMarks() map[string]EntityMarkHandler {
	return map[string]EntityMarkHandler{
		"LINK": func(e draft.Entity) (pm.Mark, bool) {
			return pm.NewMark(MarkLink, map[string]any{
				"href":   e.Data["url"],
				"target": e.Data["target"],
			}), true
		},
	}
}

// EntityDataMark returns a handler producing a markType mark whose attributes
// are the entity data.
func EntityDataMark(markType string) EntityMarkHandler {
	return func(e draft.Entity) (pm.Mark, bool) {
		return pm.NewMark(markType, cloneAttrs(e.Data)), true
	}
}

// styleRegistry resolves style names: exact entries first, then prefixes.
type styleRegistry struct {
	exact    map[string]StyleHandler
	prefixes []PrefixRule
}

func (r styleRegistry) resolve(style string) (pm.Mark, bool) {
	if h, ok := r.exact[style]; ok && h != nil {
		return h(style)
	}
	for _, rule := range r.prefixes {
		if rule.Map != nil && strings.HasPrefix(style, rule.Prefix) {
			return rule.Map(strings.TrimPrefix(style, rule.Prefix))
		}
	}
	return pm.Mark{}, false
}

// withPrefix adds rule ahead of existing ones, replacing a rule with the same
// prefix.
func (r *styleRegistry) withPrefix(rule PrefixRule) {
	kept := make([]PrefixRule, 0, len(r.prefixes)+1)
	kept = append(kept, rule)
	for _, existing := range r.prefixes {
		if existing.Prefix != rule.Prefix {
			kept = append(kept, existing)
		}
	}
	r.prefixes = kept
}

func cloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
