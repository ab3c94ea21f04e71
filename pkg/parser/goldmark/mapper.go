package goldmark

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/infrared/pkg/syntax"
)

// pending is a mapped node whose byte range may still be unknown (-1).
type pending struct {
	node       *syntax.Node
	start, end int
	children   []*pending
}

func (p *pending) include(start, end int) {
	if start < 0 {
		return
	}
	if p.start < 0 || start < p.start {
		p.start = start
	}
	if end > p.end {
		p.end = end
	}
}

// mapper converts a goldmark AST into syntax nodes. Byte ranges come from
// goldmark segments; a container spans the union of its own segments and
// its children. Nodes goldmark gives no segment for become zero-width at
// the end of the preceding sibling.
type mapper struct {
	content []byte
	lines   *syntax.Lines
}

func newMapper(content []byte) *mapper {
	return &mapper{content: content, lines: syntax.BuildLines(content)}
}

func (m *mapper) mapDocument(gmDoc ast.Node) *syntax.Node {
	doc := &pending{node: syntax.NewNode("document", syntax.Location{}), start: 0, end: len(m.content)}
	for child := gmDoc.FirstChild(); child != nil; child = child.NextSibling() {
		doc.children = append(doc.children, m.mapNode(child))
	}
	m.place(doc, 0)
	return doc.node
}

func (m *mapper) mapNode(gmNode ast.Node) *pending {
	p := &pending{node: syntax.NewNode(typeName(gmNode), syntax.Location{}), start: -1, end: -1}
	p.include(m.ownRange(gmNode))

	if heading, ok := gmNode.(*ast.Heading); ok {
		if marker := m.headingMarker(heading, p.start); marker != nil {
			p.children = append(p.children, marker)
			p.include(marker.start, marker.end)
		}
	}

	for child := gmNode.FirstChild(); child != nil; child = child.NextSibling() {
		c := m.mapNode(child)
		p.children = append(p.children, c)
		p.include(c.start, c.end)
	}
	return p
}

// place resolves unknown ranges, converts byte ranges to locations and
// links children. It returns the end offset of p.
func (m *mapper) place(p *pending, cursor int) int {
	if p.start < 0 {
		p.start, p.end = cursor, cursor
	}

	childCursor := p.start
	for _, child := range p.children {
		childCursor = m.place(child, childCursor)
		syntax.AppendChild(p.node, child.node)
	}

	p.node.Loc = syntax.Span(m.lines.Position(p.start), m.lines.Position(p.end))
	if len(p.children) == 0 && p.end > p.start {
		p.node.Text = string(m.content[p.start:p.end])
	}
	return p.end
}

// ownRange returns the byte range goldmark records for the node itself,
// or -1, -1.
func (m *mapper) ownRange(gmNode ast.Node) (int, int) {
	switch n := gmNode.(type) {
	case *ast.Text:
		return n.Segment.Start, n.Segment.Stop
	case *ast.String:
		return -1, -1
	case *ast.RawHTML:
		return m.segmentsRange(n.Segments)
	}

	// Inline nodes panic on Lines().
	if gmNode.Type() != ast.TypeBlock {
		return -1, -1
	}
	return m.segmentsRange(gmNode.Lines())
}

func (m *mapper) segmentsRange(segments *text.Segments) (int, int) {
	if segments == nil || segments.Len() == 0 {
		return -1, -1
	}

	start := segments.At(0).Start
	end := segments.At(segments.Len() - 1).Stop
	for end > start && (m.content[end-1] == '\n' || m.content[end-1] == '\r') {
		end--
	}
	return start, end
}

// headingMarker returns a leaf for the leading run of '#' of an ATX
// heading. Setext headings have none.
func (m *mapper) headingMarker(heading *ast.Heading, textStart int) *pending {
	if textStart < 0 {
		return nil
	}

	lineStart := textStart
	for lineStart > 0 && m.content[lineStart-1] != '\n' && m.content[lineStart-1] != '\r' {
		lineStart--
	}

	pos := lineStart
	for pos < textStart && m.content[pos] == ' ' {
		pos++
	}
	markerStart := pos
	for pos < textStart && m.content[pos] == '#' {
		pos++
	}
	if pos-markerStart != heading.Level {
		return nil
	}

	marker := &syntax.Node{Type: "heading_marker"}
	return &pending{node: marker, start: markerStart, end: pos}
}

// typeName returns the node kind in snake case, e.g. "fenced_code_block".
func typeName(gmNode ast.Node) string {
	if emphasis, ok := gmNode.(*ast.Emphasis); ok && emphasis.Level == 2 {
		return "strong"
	}
	return snakeCase(gmNode.Kind().String())
}

func snakeCase(name string) string {
	runes := []rune(name)

	var builder strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				builder.WriteByte('_')
			}
		}
		builder.WriteRune(unicode.ToLower(r))
	}
	return builder.String()
}
