package pretty

import (
	"strings"

	"github.com/yaklabco/infrared/pkg/diag"
)

// bodyIndent is prepended to every body line. It is the same for the
// excerpt and the caret line so their alignment survives.
const bodyIndent = "  "

// FormatDiagnostic formats a diagnostic for terminal output:
//
//	Parsing error in src/a.js
//	  Unexpected token found at 1:4
//	  let = 1;
//	      ^
func (s *Styles) FormatDiagnostic(d *diag.Diagnostic) string {
	if d == nil {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(s.Title.Render(d.Title))
	if d.Subject != "" {
		builder.WriteString(s.Dim.Render(" in ") + s.Subject.Render(d.Subject))
	}
	builder.WriteString("\n")

	if d.Body != "" {
		builder.WriteString(s.FormatBody(d.Body))
	}

	return builder.String()
}

// FormatBody styles a diagnostic body. The first line is the header; a
// trailing caret line is styled as a marker and anything between is
// source excerpt.
func (s *Styles) FormatBody(body string) string {
	lines := strings.Split(body, "\n")

	var builder strings.Builder
	for i, line := range lines {
		builder.WriteString(bodyIndent)
		switch {
		case i == 0:
			builder.WriteString(s.Header.Render(line))
		case i == len(lines)-1 && isCaretLine(line):
			padding := strings.TrimSuffix(line, "^")
			builder.WriteString(padding + s.Caret.Render("^"))
		default:
			builder.WriteString(s.SourceLine.Render(line))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatCached formats the line printed for a file that was cached.
func (s *Styles) FormatCached(logicalPath, cachePath string) string {
	return s.Success.Render("cached") + " " + s.Subject.Render(logicalPath) +
		s.Dim.Render(" -> ") + s.CachePath.Render(cachePath) + "\n"
}

func isCaretLine(line string) bool {
	if !strings.HasSuffix(line, "^") {
		return false
	}
	return strings.TrimLeft(line[:len(line)-1], " \t") == ""
}
