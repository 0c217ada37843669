package convert

import (
	"go.uber.org/zap"

	"github.com/salmonumbrella/draftpm/internal/pm"
)

// Option configures a Converter. Options apply in order, so a per-key option
// given after a wholesale one edits the replaced map.
type Option func(*Converter)

// WithLogger sets the logger used for faults and debug tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithBlockHandler registers h for a block type. A nil handler removes it.
// Any alias of the same name is dropped.
func WithBlockHandler(blockType string, h BlockHandler) Option {
	return func(c *Converter) {
		delete(c.aliases, blockType)
		if h == nil {
			delete(c.blocks, blockType)
			return
		}
		c.blocks[blockType] = h
	}
}

// WithBlockAlias makes blocks of type alias convert exactly like blocks of
// type target: handlers and run checks see the target type. Aliases do not
// chain, and an alias replaces any handler registered under its name.
func WithBlockAlias(alias, target string) Option {
	return func(c *Converter) {
		if alias == target {
			return
		}
		delete(c.blocks, alias)
		c.aliases[alias] = target
	}
}

// WithBlockHandlers replaces the whole block handler map.
func WithBlockHandlers(handlers map[string]BlockHandler) Option {
	return func(c *Converter) {
		c.blocks = make(map[string]BlockHandler, len(handlers))
		for k, h := range handlers {
			if h != nil {
				c.blocks[k] = h
			}
		}
	}
}

// WithStyle registers h for an inline style name. A nil handler removes it.
func WithStyle(style string, h StyleHandler) Option {
	return func(c *Converter) {
		if h == nil {
			delete(c.styles.exact, style)
			return
		}
		c.styles.exact[style] = h
	}
}

// WithStyles replaces the whole exact-name style map. Prefix rules are kept.
func WithStyles(handlers map[string]StyleHandler) Option {
	return func(c *Converter) {
		c.styles.exact = make(map[string]StyleHandler, len(handlers))
		for k, h := range handlers {
			if h != nil {
				c.styles.exact[k] = h
			}
		}
	}
}

// WithStylePrefix adds a prefix rule checked before the existing ones. A rule
// with the same prefix is replaced; a nil fn removes it.
func WithStylePrefix(prefix string, fn func(value string) (pm.Mark, bool)) Option {
	return func(c *Converter) {
		if fn == nil {
			kept := make([]PrefixRule, 0, len(c.styles.prefixes))
			for _, rule := range c.styles.prefixes {
				if rule.Prefix != prefix {
					kept = append(kept, rule)
				}
			}
			c.styles.prefixes = kept
			return
		}
		c.styles.withPrefix(PrefixRule{Prefix: prefix, Map: fn})
	}
}

// WithEntityMark registers h for an entity type. A nil handler removes it.
func WithEntityMark(entityType string, h EntityMarkHandler) Option {
	return func(c *Converter) {
		if h == nil {
			delete(c.entityMarks, entityType)
			return
		}
		c.entityMarks[entityType] = h
	}
}

// WithEntityMarks replaces the whole entity to mark map.
func WithEntityMarks(handlers map[string]EntityMarkHandler) Option {
	return func(c *Converter) {
		c.entityMarks = make(map[string]EntityMarkHandler, len(handlers))
		for k, h := range handlers {
			if h != nil {
				c.entityMarks[k] = h
			}
		}
	}
}

// WithEntityNode registers h for an entity type. A nil handler removes it.
func WithEntityNode(entityType string, h EntityNodeHandler) Option {
	return func(c *Converter) {
		if h == nil {
			delete(c.entityNodes, entityType)
			return
		}
		c.entityNodes[entityType] = h
	}
}

// WithEntityNodes replaces the whole entity to node map.
func WithEntityNodes(handlers map[string]EntityNodeHandler) Option {
	return func(c *Converter) {
		c.entityNodes = make(map[string]EntityNodeHandler, len(handlers))
		for k, h := range handlers {
			if h != nil {
				c.entityNodes[k] = h
			}
		}
	}
}
