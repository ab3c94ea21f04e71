package syntax

import (
	"errors"
	"fmt"
)

// ErrNilRoot is returned when a tree has no root node.
var ErrNilRoot = errors.New("tree has no root")

// LocationError describes a node whose location breaks the tree invariants.
type LocationError struct {
	Node   *Node
	Reason string
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("node %q at %s: %s", e.Node.Type, e.Node.Loc, e.Reason)
}

// Validate checks that every location in tree lies within content, that
// start never comes after end, that children sit inside their parent, and
// that siblings appear in document order.
func Validate(tree *Tree, content []byte) error {
	if tree == nil || tree.Root == nil {
		return ErrNilRoot
	}

	lines := BuildLines(content)

	var check func(parent, node *Node) error
	check = func(parent, node *Node) error {
		if err := checkBounds(lines, node); err != nil {
			return err
		}
		if node.Loc.End().Before(node.Loc.Start()) {
			return &LocationError{Node: node, Reason: "end precedes start"}
		}
		if parent != nil {
			if node.Loc.Start().Before(parent.Loc.Start()) || parent.Loc.End().Before(node.Loc.End()) {
				return &LocationError{Node: node, Reason: "outside parent " + parent.Type}
			}
		}

		var prev *Node
		for _, child := range node.Children {
			if prev != nil && child.Loc.Start().Before(prev.Loc.Start()) {
				return &LocationError{Node: child, Reason: "out of document order"}
			}
			if err := check(node, child); err != nil {
				return err
			}
			prev = child
		}
		return nil
	}

	return check(nil, tree.Root)
}

func checkBounds(lines *Lines, node *Node) error {
	if _, ok := lines.Offset(node.Loc.Start()); !ok {
		return &LocationError{Node: node, Reason: "start outside source"}
	}
	if _, ok := lines.Offset(node.Loc.End()); !ok {
		return &LocationError{Node: node, Reason: "end outside source"}
	}
	return nil
}
