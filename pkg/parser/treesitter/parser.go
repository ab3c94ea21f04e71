// Package treesitter provides syntax tree providers for programming
// languages backed by tree-sitter grammars.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/yaklabco/infrared/pkg/langdetect"
	"github.com/yaklabco/infrared/pkg/parser"
	"github.com/yaklabco/infrared/pkg/syntax"
)

var grammars = map[string]func() *sitter.Language{
	langdetect.DialectJavaScript: javascript.GetLanguage,
	langdetect.DialectTypeScript: typescript.GetLanguage,
	langdetect.DialectTSX:        tsx.GetLanguage,
	langdetect.DialectPython:     python.GetLanguage,
	langdetect.DialectGo:         golang.GetLanguage,
}

func init() {
	for dialect := range grammars {
		parser.Register(dialect, func() parser.Provider {
			return mustNew(dialect)
		})
	}
}

// Parser parses one dialect. A fresh tree-sitter parser is created for
// every call, so a Parser may be shared between goroutines.
type Parser struct {
	dialect  string
	language *sitter.Language
}

// New returns a Parser for dialect.
func New(dialect string) (*Parser, error) {
	grammar, ok := grammars[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no tree-sitter grammar", parser.ErrUnknownDialect, dialect)
	}
	return &Parser{dialect: dialect, language: grammar()}, nil
}

func mustNew(dialect string) *Parser {
	p, err := New(dialect)
	if err != nil {
		panic(err)
	}
	return p
}

// Dialect returns the dialect this parser handles.
func (p *Parser) Dialect() string {
	return p.dialect
}

// Parse builds a syntax tree for content. If tree-sitter had to recover
// from errors the first ERROR or MISSING node is returned as a
// *diag.ParseFailure and no tree is produced.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.language)

	tsTree, err := tsParser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter %s parse of %s: %w", p.dialect, path, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.HasError() {
		return nil, firstFailure(root, content)
	}

	node, err := convert(root, "", content)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}

	return &syntax.Tree{Dialect: p.dialect, Root: node}, nil
}
