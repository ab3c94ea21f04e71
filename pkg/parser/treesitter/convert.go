package treesitter

import (
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/syntax"
)

// convert copies a tree-sitter subtree into syntax nodes. Leaves carry
// their source text.
func convert(n *sitter.Node, field string, content []byte) (*syntax.Node, error) {
	loc, err := location(n)
	if err != nil {
		return nil, err
	}

	node := &syntax.Node{
		Type:  n.Type(),
		Field: field,
		Named: n.IsNamed(),
		Loc:   loc,
	}

	count := int(n.ChildCount())
	if count == 0 {
		node.Text = n.Content(content)
		return node, nil
	}

	node.Children = make([]*syntax.Node, 0, count)
	for i := range count {
		child, err := convert(n.Child(i), n.FieldNameForChild(i), content)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func location(n *sitter.Node) (syntax.Location, error) {
	start, err := point(n.StartPoint())
	if err != nil {
		return syntax.Location{}, err
	}
	end, err := point(n.EndPoint())
	if err != nil {
		return syntax.Location{}, err
	}
	return syntax.Span(start, end), nil
}

// point converts a 0-based tree-sitter row to a 1-based line. Columns are
// byte offsets in both.
func point(p sitter.Point) (syntax.Point, error) {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return syntax.Point{}, fmt.Errorf("row %d: %w", p.Row, err)
	}
	column, err := safecast.Conv[int](p.Column)
	if err != nil {
		return syntax.Point{}, fmt.Errorf("column %d: %w", p.Column, err)
	}
	return syntax.Point{Line: row + 1, Column: column}, nil
}

// firstFailure finds the first ERROR or MISSING node in document order.
// Only subtrees that report errors are searched.
func firstFailure(root *sitter.Node, content []byte) *diag.ParseFailure {
	var found *sitter.Node

	var search func(n *sitter.Node) bool
	search = func(n *sitter.Node) bool {
		if n.IsMissing() || n.Type() == "ERROR" {
			found = n
			return true
		}
		if !n.HasError() {
			return false
		}
		for i := range int(n.ChildCount()) {
			if search(n.Child(i)) {
				return true
			}
		}
		return false
	}

	if !search(root) {
		// HasError without a locatable node; report the start of input.
		found = root
	}

	return failureAt(found, content)
}

func failureAt(n *sitter.Node, content []byte) *diag.ParseFailure {
	failure := &diag.ParseFailure{Description: "Unexpected token", Line: 1}

	if start, err := point(n.StartPoint()); err == nil {
		failure.Line = start.Line
		failure.Column = start.Column
	}
	if offset, err := safecast.Conv[int](n.StartByte()); err == nil {
		failure.Offset = offset
	}

	switch {
	case n.IsMissing():
		failure.Description = fmt.Sprintf("Missing %q", n.Type())
	case failure.Offset >= len(content):
		failure.Description = "Unexpected end of input"
	}

	return failure
}
