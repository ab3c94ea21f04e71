package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/infrared/internal/logging"
	"github.com/yaklabco/infrared/pkg/cache"
	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/pipeline"
	"github.com/yaklabco/infrared/pkg/syntax"
)

// fakeParser builds a one-node tree spanning the whole source. Sources
// containing "let =" fail at the "=".
type fakeParser struct {
	err error
}

func (f fakeParser) Parse(_ context.Context, _ string, content []byte) (*syntax.Tree, error) {
	if f.err != nil {
		return nil, f.err
	}
	if idx := bytes.Index(content, []byte("let =")); idx >= 0 {
		offset := idx + len("let ")
		pos := syntax.BuildLines(content).Position(offset)
		return nil, &diag.ParseFailure{Description: "Unexpected token", Offset: offset, Line: pos.Line, Column: pos.Column}
	}

	lines := syntax.BuildLines(content)
	root := syntax.NewNode("program", syntax.Span(lines.Position(0), lines.Position(len(content))))
	root.Text = string(content)
	return &syntax.Tree{Dialect: "fake", Root: root}, nil
}

type fixture struct {
	srcDir  string
	scratch string
	pipe    *pipeline.Pipeline
}

func newFixture(t *testing.T, parser pipeline.Parser) *fixture {
	t.Helper()

	scratch := t.TempDir()
	return &fixture{
		srcDir:  t.TempDir(),
		scratch: scratch,
		pipe: pipeline.New(
			parser,
			cache.NewResolver(scratch, cache.DefaultSubdir, ".json"),
			cache.NewPersister(cache.JSONCodec{}),
		),
	}
}

func (f *fixture) write(t *testing.T, logical, content string) string {
	t.Helper()

	abs := filepath.Join(f.srcDir, filepath.FromSlash(logical))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	return abs
}

func requireDiagnostic(t *testing.T, err error) *diag.Diagnostic {
	t.Helper()

	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	return d
}

func TestProcessFile_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "src/a.js", "let a = 1;\n")

	cachePath, err := f.pipe.ProcessFile(context.Background(), abs, "src/a.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.scratch, "infrared-cache", "src", "a.json"), cachePath)

	tree, err := cache.Load(cachePath, cache.JSONCodec{})
	require.NoError(t, err)
	assert.Equal(t, "fake", tree.Dialect)
	assert.Equal(t, "let a = 1;\n", tree.Root.Text)
}

func TestProcessFile_Overwrites(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "a.js", "first")

	_, err := f.pipe.ProcessFile(context.Background(), abs, "a.js")
	require.NoError(t, err)

	f.write(t, "a.js", "second")
	cachePath, err := f.pipe.ProcessFile(context.Background(), abs, "a.js")
	require.NoError(t, err)

	tree, err := cache.Load(cachePath, cache.JSONCodec{})
	require.NoError(t, err)
	assert.Equal(t, "second", tree.Root.Text)
}

func TestProcessFile_ReadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := filepath.Join(f.srcDir, "missing.js")

	cachePath, err := f.pipe.ProcessFile(context.Background(), abs, "missing.js")
	assert.Empty(t, cachePath)

	d := requireDiagnostic(t, err)
	assert.Equal(t, diag.KindRead, d.Kind)
	assert.Equal(t, diag.TitleRead, d.Title)
	assert.Equal(t, abs, d.Subject)
	assert.Equal(t, "no such file or directory", d.Body)
	assert.NotContains(t, d.Body, abs)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assertNoEntry(t, f, "missing.js")
}

func TestProcessFile_ParseFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "src/bad.js", "let = 1;")

	cachePath, err := f.pipe.ProcessFile(context.Background(), abs, "src/bad.js")
	assert.Empty(t, cachePath)

	d := requireDiagnostic(t, err)
	assert.Equal(t, diag.KindParse, d.Kind)
	assert.Equal(t, diag.TitleParse, d.Title)
	assert.Equal(t, "src/bad.js", d.Subject)
	assert.Equal(t, "Unexpected token found at 1:4\nlet = 1;\n    ^", d.Body)

	failure, ok := d.ParseFailure()
	require.True(t, ok)
	assert.Equal(t, 4, failure.Offset)

	assertNoEntry(t, f, "src/bad.js")
}

func TestProcessFile_ParseFailureOnLaterLine(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "b.js", "a();\r\n\tlet = 2;\r\n")

	_, err := f.pipe.ProcessFile(context.Background(), abs, "b.js")

	d := requireDiagnostic(t, err)
	assert.Equal(t, "Unexpected token found at 2:5\n\tlet = 2;\n\t    ^", d.Body)
}

func TestProcessFile_ParseFailureKeepsPreviousEntry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "a.js", "good")

	cachePath, err := f.pipe.ProcessFile(context.Background(), abs, "a.js")
	require.NoError(t, err)
	before, err := os.ReadFile(cachePath)
	require.NoError(t, err)

	f.write(t, "a.js", "let = 1;")
	_, err = f.pipe.ProcessFile(context.Background(), abs, "a.js")
	require.Error(t, err)

	after, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProcessFile_ProviderErrorWithoutLocation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{err: errors.New("grammar exploded")})
	abs := f.write(t, "a.js", "x;\n")

	_, err := f.pipe.ProcessFile(context.Background(), abs, "a.js")

	d := requireDiagnostic(t, err)
	assert.Equal(t, diag.KindParse, d.Kind)
	assert.Equal(t, "grammar exploded found at 1:0\nx;\n^", d.Body)
}

func TestProcessFile_TypedNilParseFailure(t *testing.T) {
	t.Parallel()

	var failure *diag.ParseFailure
	f := newFixture(t, fakeParser{err: failure})
	abs := f.write(t, "a.js", "x;\n")

	var err error
	require.NotPanics(t, func() {
		_, err = f.pipe.ProcessFile(context.Background(), abs, "a.js")
	})

	d := requireDiagnostic(t, err)
	assert.Equal(t, diag.KindParse, d.Kind)
	assert.Equal(t, "Parser reported an empty failure found at 1:0\nx;\n^", d.Body)
	assertNoEntry(t, f, "a.js")
}

func TestProcessFile_InvalidEncoding(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "a.js", "let s = \"\xff\";\n")

	var stages []pipeline.Stage
	f.pipe.Observe = func(_ string, stage pipeline.Stage) { stages = append(stages, stage) }

	cachePath, err := f.pipe.ProcessFile(context.Background(), abs, "a.js")
	assert.Empty(t, cachePath)

	d := requireDiagnostic(t, err)
	assert.Equal(t, diag.KindRead, d.Kind)
	assert.Equal(t, diag.TitleRead, d.Title)
	assert.Equal(t, abs, d.Subject)
	assert.Equal(t, "invalid UTF-8 at byte offset 9", d.Body)
	require.ErrorIs(t, err, pipeline.ErrInvalidEncoding)
	assert.Equal(t, []pipeline.Stage{pipeline.StageReading, pipeline.StageReadFailed}, stages)
	assertNoEntry(t, f, "a.js")
}

func TestProcessFile_PersistFailure(t *testing.T) {
	t.Parallel()

	scratch := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(scratch, "infrared-cache"), []byte("in the way"), 0o644))

	pipe := pipeline.New(
		fakeParser{},
		cache.NewResolver(scratch, cache.DefaultSubdir, ".json"),
		cache.NewPersister(cache.JSONCodec{}),
	)

	src := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(src, []byte("ok"), 0o644))

	cachePath, err := pipe.ProcessFile(context.Background(), src, "a.js")
	assert.Empty(t, cachePath)

	d := requireDiagnostic(t, err)
	assert.Equal(t, diag.KindPersist, d.Kind)
	assert.Equal(t, diag.TitlePersist, d.Title)
	assert.Equal(t, filepath.Join(scratch, "infrared-cache", "a.json"), d.Subject)
	assert.NotEmpty(t, d.Body)
}

func TestProcessFile_IgnoresCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "a.js", "fine")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cachePath, err := f.pipe.ProcessFile(ctx, abs, "a.js")
	require.NoError(t, err)
	assert.FileExists(t, cachePath)
}

func TestProcessFile_Stages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		missing bool
		want    []pipeline.Stage
	}{
		{
			name:    "success",
			content: "ok",
			want:    []pipeline.Stage{pipeline.StageReading, pipeline.StageParsing, pipeline.StagePersisting, pipeline.StageDone},
		},
		{
			name:    "parse failure",
			content: "let = 1;",
			want:    []pipeline.Stage{pipeline.StageReading, pipeline.StageParsing, pipeline.StageParseFailed},
		},
		{
			name:    "read failure",
			missing: true,
			want:    []pipeline.Stage{pipeline.StageReading, pipeline.StageReadFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, fakeParser{})
			abs := filepath.Join(f.srcDir, "a.js")
			if !tt.missing {
				abs = f.write(t, "a.js", tt.content)
			}

			var got []pipeline.Stage
			f.pipe.Observe = func(_ string, stage pipeline.Stage) { got = append(got, stage) }

			_, _ = f.pipe.ProcessFile(context.Background(), abs, "a.js")

			assert.Equal(t, tt.want, got)
			assert.True(t, got[len(got)-1].Terminal())
		})
	}
}

func TestProcessFile_ConcurrentDistinctPaths(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fakeParser{})

	const files = 32
	abs := make([]string, files)
	for i := range files {
		abs[i] = f.write(t, fmt.Sprintf("pkg%d/f%d.js", i%4, i), fmt.Sprintf("file %d", i))
	}

	var wg sync.WaitGroup
	paths := make([]string, files)
	errs := make([]error, files)
	for i := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths[i], errs[i] = f.pipe.ProcessFile(context.Background(), abs[i], fmt.Sprintf("pkg%d/f%d.js", i%4, i))
		}()
	}
	wg.Wait()

	for i := range files {
		require.NoError(t, errs[i])
		tree, err := cache.Load(paths[i], cache.JSONCodec{})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("file %d", i), tree.Root.Text)
	}
}

func TestProcessFile_DebugLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	ctx := logging.WithLogger(context.Background(), logger)

	f := newFixture(t, fakeParser{})
	abs := f.write(t, "a.js", "ok")

	cachePath, err := f.pipe.ProcessFile(ctx, abs, "a.js")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Parsing")
	assert.Contains(t, out, "Created")
	assert.True(t, strings.Contains(out, cachePath) || strings.Contains(out, filepath.Base(cachePath)))
}

func TestStage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "parse_failed", pipeline.StageParseFailed.String())
	assert.Equal(t, "done", pipeline.StageDone.String())
	assert.Equal(t, "unknown", pipeline.Stage(200).String())
	assert.False(t, pipeline.StageParsing.Terminal())
}

func assertNoEntry(t *testing.T, f *fixture, logical string) {
	t.Helper()

	resolver := cache.NewResolver(f.scratch, cache.DefaultSubdir, ".json")
	_, err := os.Stat(resolver.Resolve(logical))
	assert.True(t, os.IsNotExist(err), "cache entry for %s should not exist", logical)
}
