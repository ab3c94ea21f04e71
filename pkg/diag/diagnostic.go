package diag

import (
	"errors"
	"io/fs"
	"strings"
)

// Diagnostic titles, one per failure kind.
const (
	TitleRead    = "File Reading error"
	TitleParse   = "Parsing error"
	TitlePersist = "Temp File Creation error"
)

// Diagnostic is the failure outcome of processing one file. Subject names
// the failing resource: the source path for read failures, the logical path
// for parse failures and the cache path for persist failures.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// Cause is the underlying failure (*IOFailure or *ParseFailure).
	Cause error `json:"-"`
}

// Error returns the title, subject and first line of the body.
func (d *Diagnostic) Error() string {
	first, _, _ := strings.Cut(d.Body, "\n")
	return d.Title + " in " + d.Subject + ": " + first
}

func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// ParseFailure returns the parse failure behind a KindParse diagnostic.
func (d *Diagnostic) ParseFailure() (*ParseFailure, bool) {
	var failure *ParseFailure
	if errors.As(d.Cause, &failure) {
		return failure, true
	}
	return nil, false
}

// NewReadDiagnostic reports a source file that could not be read. No
// excerpt is rendered because no source text is available.
func NewReadDiagnostic(path string, err error) *Diagnostic {
	return &Diagnostic{
		Kind:    KindRead,
		Title:   TitleRead,
		Subject: path,
		Body:    causeMessage(err),
		Cause:   &IOFailure{Op: "read", Path: path, Err: err},
	}
}

// NewParseDiagnostic reports a parse failure with a caret excerpt of source.
// A nil failure is reported at the start of the source.
func NewParseDiagnostic(logicalPath, source string, failure *ParseFailure) *Diagnostic {
	if failure == nil {
		failure = &ParseFailure{Description: "Unknown parse failure", Line: 1}
	}
	return &Diagnostic{
		Kind:    KindParse,
		Title:   TitleParse,
		Subject: logicalPath,
		Body:    Render(source, *failure),
		Cause:   failure,
	}
}

// NewPersistDiagnostic reports a cache entry that could not be written.
func NewPersistDiagnostic(cachePath string, err error) *Diagnostic {
	var ioErr *IOFailure
	if !errors.As(err, &ioErr) {
		ioErr = &IOFailure{Op: "persist", Path: cachePath, Err: err}
	}
	return &Diagnostic{
		Kind:    KindPersist,
		Title:   TitlePersist,
		Subject: cachePath,
		Body:    causeMessage(err),
		Cause:   ioErr,
	}
}

// causeMessage returns the underlying I/O message without the paths that
// wrappers add; the path already appears as the subject.
func causeMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	if pathErr := innermostPathError(err); pathErr != nil && pathErr.Err != nil {
		return pathErr.Err.Error()
	}
	var ioErr *IOFailure
	if errors.As(err, &ioErr) && ioErr.Err != nil {
		return ioErr.Err.Error()
	}
	return err.Error()
}

func innermostPathError(err error) *fs.PathError {
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return nil
	}
	for {
		var inner *fs.PathError
		if !errors.As(pathErr.Err, &inner) {
			return pathErr
		}
		pathErr = inner
	}
}
