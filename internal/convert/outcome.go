package convert

import "github.com/salmonumbrella/draftpm/internal/pm"

// OutcomeKind tells the driving scan what a block handler did.
type OutcomeKind int

const (
	// OutcomeUnhandled means the handler did not convert the block.
	OutcomeUnhandled OutcomeKind = iota
	// OutcomeEmit carries a node to append at the document root.
	OutcomeEmit
	// OutcomeAttached means the handler already placed its output in the tree.
	OutcomeAttached
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUnhandled:
		return "unhandled"
	case OutcomeEmit:
		return "emit"
	case OutcomeAttached:
		return "attached"
	default:
		return "unknown"
	}
}

// Outcome is the result of a block handler.
type Outcome struct {
	Kind OutcomeKind
	Node *pm.Node
}

// Emit appends n at the document root. A nil node is unhandled.
func Emit(n *pm.Node) Outcome {
	if n == nil {
		return Unhandled()
	}
	return Outcome{Kind: OutcomeEmit, Node: n}
}

// Unhandled marks the block as unmatched.
func Unhandled() Outcome {
	return Outcome{Kind: OutcomeUnhandled}
}

// Attached reports that the handler mutated the tree itself.
func Attached() Outcome {
	return Outcome{Kind: OutcomeAttached}
}
