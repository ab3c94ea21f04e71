package syntax

import "sort"

// LineInfo holds the byte layout of a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where the line terminator begins.
	// For the last line this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the terminator (or end of content).
	EndOffset int
}

// Lines is a line index over a piece of source text.
type Lines struct {
	content []byte
	infos   []LineInfo
}

// BuildLines indexes content. LF, CRLF and lone CR all end a line. Empty
// content has a single empty line, and content ending in a terminator has a
// trailing empty line, so every offset in [0, len(content)] has a position.
func BuildLines(content []byte) *Lines {
	var infos []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		switch content[idx] {
		case '\n':
			infos = append(infos, LineInfo{StartOffset: lineStart, NewlineStart: idx, EndOffset: idx + 1})
			lineStart = idx + 1
		case '\r':
			end := idx + 1
			if end < len(content) && content[end] == '\n' {
				end++
			}
			infos = append(infos, LineInfo{StartOffset: lineStart, NewlineStart: idx, EndOffset: end})
			lineStart = end
			idx = end - 1
		}
	}

	infos = append(infos, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return &Lines{content: content, infos: infos}
}

// Count returns the number of lines.
func (l *Lines) Count() int {
	return len(l.infos)
}

// Info returns the layout of a 1-based line number.
func (l *Lines) Info(line int) (LineInfo, bool) {
	if line < 1 || line > len(l.infos) {
		return LineInfo{}, false
	}
	return l.infos[line-1], true
}

// Content returns a 1-based line without its terminator, or nil if out of range.
func (l *Lines) Content(line int) []byte {
	info, ok := l.Info(line)
	if !ok {
		return nil
	}
	return l.content[info.StartOffset:info.NewlineStart]
}

// Position converts a byte offset to a 1-based line and 0-based column.
// Offsets past the end clamp to the end of the content; negative offsets
// clamp to the start.
func (l *Lines) Position(offset int) Point {
	if offset <= 0 {
		return Point{Line: 1, Column: 0}
	}
	if offset >= len(l.content) {
		last := l.infos[len(l.infos)-1]
		return Point{Line: len(l.infos), Column: len(l.content) - last.StartOffset}
	}

	idx := sort.Search(len(l.infos), func(i int) bool {
		return l.infos[i].EndOffset > offset
	})
	if idx >= len(l.infos) {
		idx = len(l.infos) - 1
	}

	return Point{Line: idx + 1, Column: offset - l.infos[idx].StartOffset}
}

// Offset converts a 1-based line and 0-based column to a byte offset.
// The column may point at the line terminator but not past the line.
func (l *Lines) Offset(p Point) (int, bool) {
	info, ok := l.Info(p.Line)
	if !ok || p.Column < 0 {
		return 0, false
	}
	offset := info.StartOffset + p.Column
	if offset > info.EndOffset {
		return 0, false
	}
	return offset, true
}
