package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/infrared/internal/logging"
	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/pipeline"
)

// ErrCacheCollision is reported for files whose logical paths resolve to
// the same cache entry, such as src/a.js and src/a.py.
var ErrCacheCollision = errors.New("cache entry shared by multiple files")

// Runner processes discovered files through a pipeline.
type Runner struct {
	Pipeline *pipeline.Pipeline
}

// New creates a Runner.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files and processes up to opts.Jobs of them at a time.
// Outcomes are ordered by path regardless of completion order.
//
// Files whose logical paths resolve to the same cache entry are not
// processed; each fails with a persist diagnostic naming the others.
//
// Cancelling ctx stops files that have not started; files already in
// ProcessFile run to completion. On cancellation Run returns the outcomes
// gathered so far together with the context error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := newResult(len(files))
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]FileOutcome, len(files))
	started := make([]bool, len(files))

	for i, outcome := range r.collisions(workDir, files) {
		outcomes[i] = outcome
		started[i] = true
	}

	var group errgroup.Group
	group.SetLimit(jobs)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		if started[i] {
			continue
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			started[i] = true
			outcomes[i] = r.processOne(ctx, workDir, path)
			return nil
		})
	}
	_ = group.Wait()

	for i := range files {
		if started[i] {
			result.accumulate(outcomes[i])
		}
	}

	logger.Debug("run complete",
		logging.FieldFilesCached, result.Stats.FilesCached,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// collisions returns, by file index, a failed outcome for every file that
// shares its cache entry with another file.
func (r *Runner) collisions(workDir string, files []string) map[int]FileOutcome {
	resolver := r.Pipeline.Resolver
	if resolver == nil {
		return nil
	}

	byEntry := make(map[string][]int, len(files))
	for i, path := range files {
		entry := resolver.Resolve(LogicalPath(workDir, path))
		byEntry[entry] = append(byEntry[entry], i)
	}

	failed := make(map[int]FileOutcome)
	for entry, indexes := range byEntry {
		if len(indexes) < 2 {
			continue
		}

		logical := make([]string, len(indexes))
		for j, i := range indexes {
			logical[j] = LogicalPath(workDir, files[i])
		}
		err := fmt.Errorf("%w: %s", ErrCacheCollision, strings.Join(logical, ", "))

		for j, i := range indexes {
			failed[i] = FileOutcome{
				Path:        files[i],
				LogicalPath: logical[j],
				Diagnostic:  diag.NewPersistDiagnostic(entry, err),
			}
		}
	}
	return failed
}

func (r *Runner) processOne(ctx context.Context, workDir, path string) FileOutcome {
	outcome := FileOutcome{Path: path, LogicalPath: LogicalPath(workDir, path)}

	cachePath, err := r.Pipeline.ProcessFile(ctx, path, outcome.LogicalPath)
	if err == nil {
		outcome.CachePath = cachePath
		return outcome
	}

	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		d = &diag.Diagnostic{Title: "Processing error", Subject: path, Body: err.Error(), Cause: err}
	}
	outcome.Diagnostic = d
	return outcome
}
