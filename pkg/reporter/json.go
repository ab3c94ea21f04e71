package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/runner"
)

// jsonVersion is the version of the JSON output document.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path        string          `json:"path"`
	LogicalPath string          `json:"logicalPath"`
	CachePath   string          `json:"cachePath,omitempty"`
	Diagnostic  *JSONDiagnostic `json:"diagnostic,omitempty"`
}

// JSONDiagnostic represents a diagnostic. Failure is set for parse
// diagnostics.
type JSONDiagnostic struct {
	Kind    diag.Kind          `json:"kind"`
	Title   string             `json:"title"`
	Subject string             `json:"subject"`
	Body    string             `json:"body"`
	Failure *diag.ParseFailure `json:"failure,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesCached     int            `json:"filesCached"`
	FilesFailed     int            `json:"filesFailed"`
	ByKind          map[string]int `json:"byKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFailed, nil
}

func buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByKind: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        file.Path,
			LogicalPath: file.LogicalPath,
			CachePath:   file.CachePath,
		}

		if d := file.Diagnostic; d != nil {
			fileResult.Diagnostic = &JSONDiagnostic{
				Kind:    d.Kind,
				Title:   d.Title,
				Subject: d.Subject,
				Body:    d.Body,
			}
			if failure, ok := d.ParseFailure(); ok {
				fileResult.Diagnostic.Failure = failure
			}
			output.Summary.FilesFailed++
			output.Summary.ByKind[d.Kind.String()]++
		} else {
			output.Summary.FilesCached++
		}

		output.Files = append(output.Files, fileResult)
	}
	output.Summary.FilesDiscovered = result.Stats.FilesDiscovered

	return output
}
