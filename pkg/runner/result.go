package runner

import "github.com/yaklabco/infrared/pkg/diag"

// FileOutcome is the result of processing one file. Exactly one of
// CachePath and Diagnostic is set.
type FileOutcome struct {
	// Path is the absolute source path.
	Path string

	// LogicalPath is Path relative to the working directory, slash-separated.
	LogicalPath string

	// CachePath is the entry written on success.
	CachePath string

	// Diagnostic describes the failure.
	Diagnostic *diag.Diagnostic
}

// Failed reports whether the file produced a diagnostic.
func (o FileOutcome) Failed() bool {
	return o.Diagnostic != nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesCached     int
	FilesFailed     int

	// ByKind counts failures by diagnostic kind ("read", "parse", "persist").
	ByKind map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per processed file, sorted by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file produced a diagnostic.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// Diagnostics returns the diagnostics in file order.
func (r *Result) Diagnostics() []*diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []*diag.Diagnostic
	for _, file := range r.Files {
		if file.Diagnostic != nil {
			out = append(out, file.Diagnostic)
		}
	}
	return out
}

func newResult(discovered int) *Result {
	return &Result{
		Files: make([]FileOutcome, 0, discovered),
		Stats: Stats{FilesDiscovered: discovered, ByKind: make(map[string]int)},
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Diagnostic == nil {
		r.Stats.FilesCached++
		return
	}

	r.Stats.FilesFailed++
	r.Stats.ByKind[outcome.Diagnostic.Kind.String()]++
}
