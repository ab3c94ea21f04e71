package syntax

import "fmt"

// Location is a span in source text. Lines are 1-based and columns are
// 0-based byte offsets within the line, matching editor conventions.
type Location struct {
	StartLine   int `json:"startLine" msgpack:"startLine"`
	StartColumn int `json:"startColumn" msgpack:"startColumn"`
	EndLine     int `json:"endLine" msgpack:"endLine"`
	EndColumn   int `json:"endColumn" msgpack:"endColumn"`
}

// Point is a single line/column position.
type Point struct {
	Line   int
	Column int
}

// Start returns the start position.
func (l Location) Start() Point {
	return Point{Line: l.StartLine, Column: l.StartColumn}
}

// End returns the end position.
func (l Location) End() Point {
	return Point{Line: l.EndLine, Column: l.EndColumn}
}

// IsSingleLine returns true if start and end are on the same line.
func (l Location) IsSingleLine() bool {
	return l.StartLine == l.EndLine
}

// Span builds a Location from two points.
func Span(start, end Point) Location {
	return Location{
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

// Before reports whether p comes strictly before other in document order.
func (p Point) Before(other Point) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (l Location) String() string {
	return l.Start().String() + "-" + l.End().String()
}
