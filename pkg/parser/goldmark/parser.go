// Package goldmark provides the Markdown syntax tree provider, built on the
// goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/infrared/pkg/langdetect"
	"github.com/yaklabco/infrared/pkg/parser"
	"github.com/yaklabco/infrared/pkg/syntax"
)

func init() {
	for _, dialect := range []string{langdetect.DialectMarkdown, langdetect.DialectGFM} {
		parser.Register(dialect, func() parser.Provider { return New(dialect) })
	}
}

// Parser parses CommonMark ("markdown") or GitHub Flavored Markdown ("gfm").
type Parser struct {
	dialect string
	md      goldmark.Markdown
}

// New creates a parser for dialect. Unknown dialects fall back to
// CommonMark.
func New(dialect string) *Parser {
	d := dialectOrDefault(dialect)
	return &Parser{
		dialect: d,
		md:      newGoldmarkInstance(d),
	}
}

// Dialect returns the configured dialect.
func (p *Parser) Dialect() string {
	return p.dialect
}

// Parse converts Markdown into a syntax tree. Any byte sequence is valid
// Markdown, so the only error is context cancellation.
func (p *Parser) Parse(ctx context.Context, _ string, content []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := copyContent(content)
	gmDoc := p.md.Parser().Parse(text.NewReader(source), gmparser.WithContext(gmparser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return &syntax.Tree{
		Dialect: p.dialect,
		Root:    newMapper(source).mapDocument(gmDoc),
	}, nil
}

func dialectOrDefault(dialect string) string {
	if dialect == langdetect.DialectGFM {
		return dialect
	}
	return langdetect.DialectMarkdown
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(dialect string) goldmark.Markdown {
	var opts []goldmark.Option
	if dialect == langdetect.DialectGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}

// copyContent copies content so the tree never aliases the caller's buffer.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
