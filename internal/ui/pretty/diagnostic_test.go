package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/infrared/internal/ui/pretty"
	"github.com/yaklabco/infrared/pkg/diag"
)

func TestFormatDiagnostic_Parse(t *testing.T) {
	styles := pretty.NewStyles(false)

	d := diag.NewParseDiagnostic("src/a.js", "let = 1;\n", &diag.ParseFailure{
		Description: "Unexpected token",
		Offset:      4,
		Line:        1,
		Column:      4,
	})

	want := "Parsing error in src/a.js\n" +
		"  Unexpected token found at 1:4\n" +
		"  let = 1;\n" +
		"      ^\n"
	assert.Equal(t, want, styles.FormatDiagnostic(d))
}

func TestFormatDiagnostic_Read(t *testing.T) {
	styles := pretty.NewStyles(false)

	d := &diag.Diagnostic{
		Kind:    diag.KindRead,
		Title:   diag.TitleRead,
		Subject: "/work/missing.js",
		Body:    "file not found",
	}

	assert.Equal(t, "File Reading error in /work/missing.js\n  file not found\n", styles.FormatDiagnostic(d))
}

func TestFormatDiagnostic_NoSubjectOrBody(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "Processing error\n", styles.FormatDiagnostic(&diag.Diagnostic{Title: "Processing error"}))
	assert.Empty(t, styles.FormatDiagnostic(nil))
}

func TestFormatBody(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "header only",
			body: "boom",
			want: "  boom\n",
		},
		{
			name: "tab kept in caret padding",
			body: "Unexpected token found at 2:5\n\tlet = 1;\n\t    ^",
			want: "  Unexpected token found at 2:5\n  \tlet = 1;\n  \t    ^\n",
		},
		{
			name: "caret at column zero",
			body: "Missing \";\" found at 1:0\n\n^",
			want: "  Missing \";\" found at 1:0\n  \n  ^\n",
		},
		{
			name: "caret-looking text in the middle is source",
			body: "x\n  ^\ny",
			want: "  x\n    ^\n  y\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatBody(tt.body))
		})
	}
}

func TestFormatDiagnostic_WithColor(t *testing.T) {
	styles := pretty.NewStyles(true)

	d := diag.NewParseDiagnostic("a.js", "let = 1;", &diag.ParseFailure{
		Description: "Unexpected token",
		Offset:      4,
		Line:        1,
		Column:      4,
	})

	got := styles.FormatDiagnostic(d)
	assert.Contains(t, got, "Parsing error")
	assert.Contains(t, got, "a.js")
	assert.Contains(t, got, "let = 1;")
	assert.Contains(t, got, "^")
}

func TestFormatCached(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatCached("src/a.js", "/tmp/infrared-cache/src/a.json")
	assert.Equal(t, "cached src/a.js -> /tmp/infrared-cache/src/a.json\n", got)
}
