// Package pipeline turns one source file into one cache entry or one
// diagnostic: it reads the file, parses it and persists the tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/infrared/internal/logging"
	"github.com/yaklabco/infrared/pkg/cache"
	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/fsutil"
	"github.com/yaklabco/infrared/pkg/syntax"
)

// Parser produces a syntax tree from source text. path is a label for
// detection and messages only. Malformed input must yield an error that is,
// or wraps, a *diag.ParseFailure.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error)
}

// ErrInvalidEncoding is reported when a source file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8")

// Stage identifies where ProcessFile is, or where it stopped.
type Stage uint8

const (
	StageStart Stage = iota
	StageReading
	StageReadFailed
	StageParsing
	StageParseFailed
	StagePersisting
	StagePersistFailed
	StageDone
)

var stageNames = [...]string{
	StageStart:         "start",
	StageReading:       "reading",
	StageReadFailed:    "read_failed",
	StageParsing:       "parsing",
	StageParseFailed:   "parse_failed",
	StagePersisting:    "persisting",
	StagePersistFailed: "persist_failed",
	StageDone:          "done",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Terminal reports whether s ends an invocation.
func (s Stage) Terminal() bool {
	switch s {
	case StageReadFailed, StageParseFailed, StagePersistFailed, StageDone:
		return true
	default:
		return false
	}
}

// Pipeline processes single files. It holds no per-file state, so one
// Pipeline serves any number of concurrent ProcessFile calls.
type Pipeline struct {
	Parser    Parser
	Resolver  *cache.Resolver
	Persister *cache.Persister

	// Observe, when set, is called on every stage transition.
	Observe func(logicalPath string, stage Stage)
}

// New creates a Pipeline.
func New(parser Parser, resolver *cache.Resolver, persister *cache.Persister) *Pipeline {
	return &Pipeline{Parser: parser, Resolver: resolver, Persister: persister}
}

// ProcessFile reads absolutePath, parses it and writes the tree to the
// cache entry for logicalPath. It returns the cache path on success. On
// failure the error is always a *diag.Diagnostic and no cache entry is
// written or modified.
//
// Once started the call runs to completion; cancellation of ctx is not
// observed. Values on ctx, such as the logger, are.
func (p *Pipeline) ProcessFile(ctx context.Context, absolutePath, logicalPath string) (string, error) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx).With(logging.FieldLogicalPath, logicalPath)

	p.enter(logicalPath, StageReading)
	content, _, err := fsutil.ReadFile(ctx, absolutePath)
	if err == nil {
		err = checkEncoding(content)
	}
	if err != nil {
		p.enter(logicalPath, StageReadFailed)
		return "", diag.NewReadDiagnostic(absolutePath, err)
	}

	p.enter(logicalPath, StageParsing)
	logger.Debug("Parsing", logging.FieldPath, absolutePath)
	tree, err := p.Parser.Parse(ctx, logicalPath, content)
	if err == nil && tree == nil {
		err = errors.New("parser returned no tree")
	}
	if err != nil {
		p.enter(logicalPath, StageParseFailed)
		return "", diag.NewParseDiagnostic(logicalPath, string(content), asParseFailure(err))
	}

	p.enter(logicalPath, StagePersisting)
	cachePath := p.Resolver.Resolve(logicalPath)
	written, err := p.Persister.Persist(ctx, cachePath, tree)
	if err != nil {
		p.enter(logicalPath, StagePersistFailed)
		return "", diag.NewPersistDiagnostic(cachePath, err)
	}

	p.enter(logicalPath, StageDone)
	logger.Debug("Created", logging.FieldCachePath, written)

	return written, nil
}

func (p *Pipeline) enter(logicalPath string, stage Stage) {
	if p.Observe != nil {
		p.Observe(logicalPath, stage)
	}
}

// asParseFailure extracts the parse failure from a provider error. Other
// errors are reported at the start of the file with their message.
func asParseFailure(err error) *diag.ParseFailure {
	var failure *diag.ParseFailure
	if errors.As(err, &failure) {
		if failure != nil {
			return failure
		}
		return &diag.ParseFailure{Description: "Parser reported an empty failure", Offset: 0, Line: 1, Column: 0}
	}
	return &diag.ParseFailure{Description: err.Error(), Offset: 0, Line: 1, Column: 0}
}

// checkEncoding rejects content that is not valid UTF-8, naming the byte
// offset of the first invalid sequence.
func checkEncoding(content []byte) error {
	if utf8.Valid(content) {
		return nil
	}
	for offset := 0; offset < len(content); {
		r, size := utf8.DecodeRune(content[offset:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("%w at byte offset %d", ErrInvalidEncoding, offset)
		}
		offset += size
	}
	return ErrInvalidEncoding
}
