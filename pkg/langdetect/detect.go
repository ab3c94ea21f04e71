// Package langdetect maps source files to parser dialects. Known extensions
// are matched directly; anything else goes through go-enry filename,
// shebang and content detection.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Dialect names understood by the bundled parsers.
const (
	DialectJavaScript = "javascript"
	DialectTypeScript = "typescript"
	DialectTSX        = "tsx"
	DialectPython     = "python"
	DialectGo         = "go"
	DialectMarkdown   = "markdown"
	DialectGFM        = "gfm"
)

// sniffLimit bounds how much content is handed to the enry classifier.
const sniffLimit = 16 * 1024

// enryDialects maps go-enry language names to dialects.
var enryDialects = map[string]string{
	"JavaScript": DialectJavaScript,
	"JSX":        DialectJavaScript,
	"TypeScript": DialectTypeScript,
	"TSX":        DialectTSX,
	"Python":     DialectPython,
	"Go":         DialectGo,
	"Markdown":   DialectMarkdown,
}

// extDialects takes precedence over enry so common files never hit the
// classifier.
var extDialects = map[string]string{
	".js":       DialectJavaScript,
	".mjs":      DialectJavaScript,
	".cjs":      DialectJavaScript,
	".jsx":      DialectJavaScript,
	".ts":       DialectTypeScript,
	".mts":      DialectTypeScript,
	".cts":      DialectTypeScript,
	".tsx":      DialectTSX,
	".py":       DialectPython,
	".pyi":      DialectPython,
	".go":       DialectGo,
	".md":       DialectMarkdown,
	".markdown": DialectMarkdown,
	".mdown":    DialectMarkdown,
}

// DialectFor returns the dialect for a file, or "" when none applies. path
// is used only for its name; the file is never opened.
func DialectFor(path string, content []byte) string {
	if len(content) > sniffLimit {
		content = content[:sniffLimit]
	}

	ext := strings.ToLower(filepath.Ext(path))
	if dialect := extDialects[ext]; dialect != "" {
		return dialect
	}

	if dialect := enryDialects[enry.GetLanguage(filepath.Base(path), content)]; dialect != "" {
		return dialect
	}

	if ext == "" {
		return detectByPattern(content)
	}

	return ""
}

// Detect guesses a dialect from content alone, for files with no
// extension. It returns "" when unsure.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return enryDialects[lang]
	}

	return detectByPattern(content)
}

// Extensions returns the file extensions mapped to any of dialects, sorted.
// With no arguments it returns every known extension.
func Extensions(dialects ...string) []string {
	var exts []string
	for ext, dialect := range extDialects {
		if len(dialects) == 0 || slices.Contains(dialects, dialect) {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

func detectByPattern(content []byte) string {
	text := string(content)
	trimmed := bytes.TrimSpace(content)

	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return DialectGo
	case isPython(text):
		return DialectPython
	case isJavaScript(text):
		return DialectJavaScript
	default:
		return ""
	}
}

func isPython(text string) bool {
	if strings.Contains(text, "def ") && strings.Contains(text, "):") {
		return true
	}
	if strings.HasPrefix(strings.TrimSpace(text), "import ") && !strings.Contains(text, "import (") {
		return true
	}
	return strings.Contains(text, "__name__")
}

func isJavaScript(text string) bool {
	return strings.Contains(text, "=>") ||
		strings.Contains(text, "const ") ||
		strings.Contains(text, "require(") ||
		strings.Contains(text, "console.log")
}
