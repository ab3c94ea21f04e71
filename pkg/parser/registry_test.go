package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/parser"
	"github.com/yaklabco/infrared/pkg/syntax"
)

// stubProvider returns a one-node tree labeled with its dialect, or fails
// when the content is "fail".
type stubProvider struct {
	dialect string
}

func (s stubProvider) Parse(_ context.Context, _ string, content []byte) (*syntax.Tree, error) {
	if string(content) == "fail" {
		return nil, &diag.ParseFailure{Description: "Unexpected token", Line: 1, Column: 0}
	}
	return &syntax.Tree{Dialect: s.dialect, Root: syntax.NewNode("root", syntax.Location{StartLine: 1, EndLine: 1})}, nil
}

func stub(dialect string) parser.Factory {
	return func() parser.Provider { return stubProvider{dialect: dialect} }
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := parser.NewRegistry()
	require.NoError(t, registry.Register("python", stub("python")))
	require.NoError(t, registry.Register("javascript", stub("javascript")))

	assert.Equal(t, []string{"javascript", "python"}, registry.Dialects())
	assert.True(t, registry.Has("python"))
	assert.False(t, registry.Has("ruby"))

	err := registry.Register("python", stub("python"))
	require.ErrorIs(t, err, parser.ErrDuplicateDialect)

	require.Error(t, registry.Register("", stub("x")))
	require.Error(t, registry.Register("x", nil))

	_, err = registry.Lookup("ruby")
	require.ErrorIs(t, err, parser.ErrUnknownDialect)

	provider, err := registry.Lookup("python")
	require.NoError(t, err)
	tree, err := provider.Parse(context.Background(), "a.py", []byte("x = 1"))
	require.NoError(t, err)
	assert.Equal(t, "python", tree.Dialect)
}

func TestDetecting(t *testing.T) {
	t.Parallel()

	registry := parser.NewRegistry()
	require.NoError(t, registry.Register("javascript", stub("javascript")))
	require.NoError(t, registry.Register("markdown", stub("markdown")))

	ctx := context.Background()

	t.Run("picks dialect by extension", func(t *testing.T) {
		t.Parallel()

		d := &parser.Detecting{Registry: registry}
		tree, err := d.Parse(ctx, "src/a.js", []byte("let a;"))
		require.NoError(t, err)
		assert.Equal(t, "javascript", tree.Dialect)

		tree, err = d.Parse(ctx, "README.md", []byte("# hi"))
		require.NoError(t, err)
		assert.Equal(t, "markdown", tree.Dialect)
	})

	t.Run("unregistered dialect uses fallback", func(t *testing.T) {
		t.Parallel()

		d := &parser.Detecting{Registry: registry, Fallback: "javascript"}
		tree, err := d.Parse(ctx, "tool.py", []byte("x = 1"))
		require.NoError(t, err)
		assert.Equal(t, "javascript", tree.Dialect)
	})

	t.Run("no dialect and no fallback", func(t *testing.T) {
		t.Parallel()

		d := &parser.Detecting{Registry: registry}
		_, err := d.Parse(ctx, "style.css", []byte("a{}"))
		assert.ErrorIs(t, err, parser.ErrUnknownDialect)
	})

	t.Run("parse failures pass through", func(t *testing.T) {
		t.Parallel()

		d := &parser.Detecting{Registry: registry}
		_, err := d.Parse(ctx, "a.js", []byte("fail"))

		var failure *diag.ParseFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, 1, failure.Line)
	})
}

func TestForDialect(t *testing.T) {
	t.Parallel()

	registry := parser.NewRegistry()
	require.NoError(t, registry.Register("javascript", stub("javascript")))

	provider, err := parser.ForDialect(registry, parser.AutoDialect)
	require.NoError(t, err)
	assert.IsType(t, &parser.Detecting{}, provider)

	provider, err = parser.ForDialect(registry, "javascript")
	require.NoError(t, err)
	tree, err := provider.Parse(context.Background(), "anything.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "javascript", tree.Dialect)

	_, err = parser.ForDialect(registry, "cobol")
	assert.ErrorIs(t, err, parser.ErrUnknownDialect)
}
