package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/infrared/pkg/runner"
)

// Exit codes for infrared.
const (
	// ExitSuccess indicates every file was cached.
	ExitSuccess = 0

	// ExitParseFailures indicates the run completed but at least one file
	// produced a diagnostic.
	ExitParseFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors outside per-file processing.
	ExitIOError = 74
)

// ErrFailuresFound is returned when a run produced diagnostics.
var ErrFailuresFound = errors.New("files failed to parse or cache")

// ConfigError marks a failure to load or validate configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "load configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UsageError marks invalid flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitParseFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var (
		configErr *ConfigError
		usageErr  *UsageError
		pathErr   *fs.PathError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFailuresFound):
		return ExitParseFailures
	case errors.As(err, &configErr):
		return ExitConfigError
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.As(err, &pathErr), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
