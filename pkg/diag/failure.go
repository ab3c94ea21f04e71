// Package diag defines the failures a processing run can end in and renders
// them as human-readable diagnostics.
//
// There are exactly three failure kinds: the source could not be read, it
// could not be parsed, or its tree could not be written to the cache. Each
// surfaces to callers as a *Diagnostic with a uniform title/subject/body
// shape.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a Diagnostic by the stage that failed.
type Kind uint8

const (
	KindRead Kind = iota + 1
	KindParse
	KindPersist
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindParse:
		return "parse"
	case KindPersist:
		return "persist"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "read":
		*k = KindRead
	case "parse":
		*k = KindParse
	case "persist":
		*k = KindPersist
	default:
		return fmt.Errorf("unknown diagnostic kind %q", text)
	}
	return nil
}

// ParseFailure is a structured parse error reported by a parser. Line is
// 1-based; Column is a 0-based byte offset within the line; Offset is the
// byte offset into the whole source.
type ParseFailure struct {
	Description string `json:"description"`
	Offset      int    `json:"offset"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
}

func (f *ParseFailure) Error() string {
	if f == nil {
		return "<nil parse failure>"
	}
	return fmt.Sprintf("%s found at %d:%d", f.Description, f.Line, f.Column)
}

// IOFailure is a filesystem failure tied to a path.
type IOFailure struct {
	// Op is the operation that failed ("read", "persist").
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}
