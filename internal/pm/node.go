// Package pm builds ProseMirror-style document trees: container nodes with
// ordered children, and text leaves carrying marks.
package pm

import (
	"fmt"
	"reflect"
	"strings"
)

// Node types produced by the default converter.
const (
	TypeDoc            = "doc"
	TypeText           = "text"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBlockquote     = "blockquote"
	TypeCodeBlock      = "codeBlock"
	TypeHorizontalRule = "horizontalRule"
	TypeImage          = "image"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeTaskList       = "taskList"
	TypeListItem       = "listItem"
	TypeTaskItem       = "taskItem"
	TypeTable          = "table"
	TypeTableRow       = "tableRow"
	TypeTableCell      = "tableCell"
)

// Node is a document tree node. Text nodes carry Text and Marks and never
// have children.
type Node struct {
	Type    string         `json:"type" yaml:"type"`
	Attrs   map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty" yaml:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty" yaml:"marks,omitempty"`
	Text    string         `json:"text,omitempty" yaml:"text,omitempty"`
}

// Mark annotates a text node.
type Mark struct {
	Type  string         `json:"type" yaml:"type"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Equal reports whether both marks have the same type and attributes.
func (m Mark) Equal(other Mark) bool {
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) == 0 && len(other.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(m.Attrs, other.Attrs)
}

// ContractError is raised (via panic) when the tree builder is misused.
type ContractError struct {
	Op     string
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("pm: %s: %s", e.Op, e.Reason)
}

// NewNode creates a container node with optional attributes and children.
// Nil children are skipped.
func NewNode(typ string, attrs map[string]any, children ...*Node) *Node {
	n := &Node{Type: typ, Attrs: attrs}
	for _, c := range children {
		if c != nil {
			n.Content = append(n.Content, c)
		}
	}
	return n
}

// NewText creates a text leaf. Empty text yields nil, which AddChild ignores.
func NewText(text string, marks ...Mark) *Node {
	if text == "" {
		return nil
	}
	n := &Node{Type: TypeText, Text: text}
	if len(marks) > 0 {
		n.Marks = append([]Mark(nil), marks...)
	}
	return n
}

// NewMark creates a mark.
func NewMark(typ string, attrs map[string]any) Mark {
	return Mark{Type: typ, Attrs: attrs}
}

// NewDocument creates an empty root document.
func NewDocument() *Node {
	return &Node{Type: TypeDoc, Content: []*Node{}}
}

// AddChild appends children to parent and returns parent. Nil children are
// skipped. A nil parent or a text parent is a programming error and panics
// with a *ContractError.
func AddChild(parent *Node, children ...*Node) *Node {
	if parent == nil {
		if countNonNil(children) == 0 {
			panic(&ContractError{Op: "AddChild", Reason: "cannot add a nil child to a nil parent"})
		}
		panic(&ContractError{Op: "AddChild", Reason: "cannot add a child to a nil parent"})
	}
	if parent.Type == TypeText && countNonNil(children) > 0 {
		panic(&ContractError{Op: "AddChild", Reason: "text nodes cannot have children"})
	}
	for _, c := range children {
		if c != nil {
			parent.Content = append(parent.Content, c)
		}
	}
	return parent
}

// AddMark appends marks to n and returns n. A nil node panics with a
// *ContractError.
func AddMark(n *Node, marks ...Mark) *Node {
	if n == nil {
		panic(&ContractError{Op: "AddMark", Reason: "cannot add a mark to a nil node"})
	}
	for _, m := range marks {
		if m.Type == "" {
			continue
		}
		n.Marks = append(n.Marks, m)
	}
	return n
}

// LastChild returns the trailing child of n, or nil.
func (n *Node) LastChild() *Node {
	if n == nil || len(n.Content) == 0 {
		return nil
	}
	return n.Content[len(n.Content)-1]
}

// TextContent concatenates the text of every leaf below n.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.Type == TypeText {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Content {
		c.writeText(sb)
	}
}

func countNonNil(nodes []*Node) int {
	count := 0
	for _, n := range nodes {
		if n != nil {
			count++
		}
	}
	return count
}
