// Package convert turns raw Draft.js content into a ProseMirror document.
//
// A Converter holds immutable handler registries and can be shared between
// goroutines. Each call to Convert runs in its own Session, which owns the
// document being built, the traversal cursor and the Unmatched report.
package convert

import (
	"sort"

	"go.uber.org/zap"

	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// Converter maps Draft.js blocks, styles and entities to document nodes.
type Converter struct {
	blocks      map[string]BlockHandler
	aliases     map[string]string
	styles      styleRegistry
	entityMarks map[string]EntityMarkHandler
	entityNodes map[string]EntityNodeHandler
	log         *zap.Logger
}

// Conversion is the result of one Convert call.
type Conversion struct {
	Doc       *pm.Node   `json:"doc" yaml:"doc"`
	Unmatched *Unmatched `json:"unmatched" yaml:"unmatched"`
	// Converted counts the source blocks that ended up in Doc.
	Converted int `json:"converted" yaml:"converted"`
}

// New returns a Converter with the default registries, adjusted by opts.
func New(opts ...Option) *Converter {
	c := &Converter{
		blocks:  DefaultBlockHandlers(),
		aliases: map[string]string{},
		styles: styleRegistry{
			exact:    DefaultStyles(),
			prefixes: DefaultStylePrefixes(),
		},
		entityMarks: DefaultEntityMarks(),
		entityNodes: DefaultEntityNodes(),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertJSON parses raw Draft.js JSON and converts it.
func (c *Converter) ConvertJSON(raw []byte) (*Conversion, error) {
	content, err := draft.Parse(raw)
	if err != nil {
		return nil, err
	}
	return c.Convert(*content), nil
}

// Convert builds a document from content. It never fails: anything that
// cannot be mapped is reported in Conversion.Unmatched.
func (c *Converter) Convert(content draft.Content) *Conversion {
	s := c.newSession(content)
	cur := NewCursor(c.resolveAliases(content.Blocks))

	for !cur.Done() {
		start := cur.Index()
		block := content.Blocks[start]

		outcome, next := s.dispatch(cur)
		next = s.clampCursor(next, start)

		switch outcome.Kind {
		case OutcomeEmit:
			pm.AddChild(s.doc, outcome.Node)
			s.converted += next.Index() - start + 1
		case OutcomeAttached:
			s.converted += next.Index() - start + 1
		case OutcomeUnhandled:
			s.skip(start, block)
			next = next.SetIndex(start)
		default:
			s.log.Warn("unknown block outcome",
				zap.Int("block", start),
				zap.Stringer("outcome", outcome.Kind))
			s.skip(start, block)
			next = next.SetIndex(start)
		}

		cur, _, _ = next.Next()
	}

	return &Conversion{
		Doc:       s.doc,
		Unmatched: s.unmatched,
		Converted: s.converted,
	}
}

// resolveAliases returns blocks with aliased types replaced by their
// targets. The input is returned as is when no alias applies.
func (c *Converter) resolveAliases(blocks []draft.Block) []draft.Block {
	if len(c.aliases) == 0 {
		return blocks
	}
	var out []draft.Block
	for i, b := range blocks {
		target, ok := c.aliases[b.Type]
		if !ok {
			continue
		}
		if out == nil {
			out = make([]draft.Block, len(blocks))
			copy(out, blocks)
		}
		out[i].Type = target
	}
	if out == nil {
		return blocks
	}
	return out
}

// BlockTypes lists the registered block types and aliases, sorted.
func (c *Converter) BlockTypes() []string {
	types := sortedKeys(c.blocks)
	for alias, target := range c.aliases {
		if _, ok := c.blocks[target]; ok {
			types = append(types, alias)
		}
	}
	sort.Strings(types)
	return types
}

// BlockAliases returns a copy of the alias to target block type map.
func (c *Converter) BlockAliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// Styles lists the registered exact style names, sorted.
func (c *Converter) Styles() []string {
	return sortedKeys(c.styles.exact)
}

// StylePrefixes lists the registered style prefixes in lookup order.
func (c *Converter) StylePrefixes() []string {
	out := make([]string, 0, len(c.styles.prefixes))
	for _, rule := range c.styles.prefixes {
		out = append(out, rule.Prefix)
	}
	return out
}

// EntityMarkTypes lists the entity types that map to marks, sorted.
func (c *Converter) EntityMarkTypes() []string {
	return sortedKeys(c.entityMarks)
}

// EntityNodeTypes lists the entity types that map to nodes, sorted.
func (c *Converter) EntityNodeTypes() []string {
	return sortedKeys(c.entityNodes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
