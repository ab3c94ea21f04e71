// Package syntax defines the location-annotated syntax tree produced by
// parsers and written to the cache. The model is grammar-agnostic: node types
// are plain strings chosen by whichever parser produced the tree.
package syntax

// Node is a single node of a syntax tree.
//
// Children is nil for leaves; builders never leave an empty non-nil slice so
// that a decoded tree compares equal to the tree that was encoded.
type Node struct {
	// Type is the grammar's name for the node (e.g. "lexical_declaration").
	Type string `json:"type" msgpack:"type"`

	// Field is the grammar field under which the parent holds this node.
	Field string `json:"field,omitempty" msgpack:"field,omitempty"`

	// Named is false for anonymous punctuation and keyword tokens.
	Named bool `json:"named" msgpack:"named"`

	// Text holds the source text of leaf nodes.
	Text string `json:"text,omitempty" msgpack:"text,omitempty"`

	// Loc is the node's span in the source.
	Loc Location `json:"loc" msgpack:"loc"`

	Children []*Node `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Tree is a parsed source file.
type Tree struct {
	// Dialect names the parser that produced the tree (e.g. "javascript").
	Dialect string `json:"dialect" msgpack:"dialect"`

	Root *Node `json:"root" msgpack:"root"`
}

// NewNode creates a node of the given type at loc.
func NewNode(typ string, loc Location) *Node {
	return &Node{Type: typ, Named: true, Loc: loc}
}

// AppendChild adds child as the last child of parent.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	parent.Children = append(parent.Children, child)
}

// IsLeaf returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// NodeCount returns the total number of nodes in the tree.
func (t *Tree) NodeCount() int {
	if t == nil {
		return 0
	}
	count := 0
	//nolint:errcheck // the callback never fails
	Walk(t.Root, func(*Node) error {
		count++
		return nil
	})
	return count
}
