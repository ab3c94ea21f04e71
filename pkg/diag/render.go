package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/infrared/pkg/syntax"
)

// Render formats a parse failure as three lines:
//
//	{description} found at {line}:{column}
//	{source line}
//	{padding}^
//
// The padding puts the caret under byte column failure.Column of the source
// line. A line number outside the source yields an empty excerpt line.
func Render(source string, failure ParseFailure) string {
	excerpt := string(syntax.BuildLines([]byte(source)).Content(failure.Line))

	var builder strings.Builder
	fmt.Fprintf(&builder, "%s found at %d:%d\n", failure.Description, failure.Line, failure.Column)
	builder.WriteString(excerpt)
	builder.WriteByte('\n')
	builder.WriteString(caretPadding(excerpt, failure.Column))
	builder.WriteByte('^')

	return builder.String()
}

// caretPadding returns the whitespace that spans the first column bytes of
// line when displayed. Tabs are kept as tabs so they expand exactly as they
// do on the line above; other runes become as many spaces as they are wide.
func caretPadding(line string, column int) string {
	if column <= 0 {
		return ""
	}

	var builder strings.Builder
	offset := 0
	for offset < len(line) {
		r, size := utf8.DecodeRuneInString(line[offset:])
		if offset+size > column {
			break
		}
		switch {
		case r == '\t':
			builder.WriteByte('\t')
		case r == utf8.RuneError && size == 1:
			builder.WriteByte(' ')
		default:
			builder.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		offset += size
	}

	// Columns past the end of the line, or inside a multi-byte rune.
	if offset < column {
		builder.WriteString(strings.Repeat(" ", column-offset))
	}

	return builder.String()
}
