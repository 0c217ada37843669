package convert

import (
	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// EntityNodeHandler maps an entity to a standalone node. A nil node declines.
type EntityNodeHandler func(e draft.Entity) *pm.Node

// DefaultEntityNodes returns the built-in entity to node mapping used by
// atomic blocks.
func DefaultEntityNodes() map[string]EntityNodeHandler {
	return map[string]EntityNodeHandler{
		"HORIZONTAL_RULE": func(draft.Entity) *pm.Node {
			return pm.NewNode(pm.TypeHorizontalRule, nil)
		},
		"IMAGE": func(e draft.Entity) *pm.Node {
			return pm.NewNode(pm.TypeImage, map[string]any{
				"src": e.Data["src"],
				"alt": e.Data["alt"],
			})
		},
	}
}

// EntityDataNode returns a handler producing a nodeType node whose attributes
// are the entity data.
func EntityDataNode(nodeType string) EntityNodeHandler {
	return func(e draft.Entity) *pm.Node {
		return pm.NewNode(nodeType, cloneAttrs(e.Data))
	}
}
