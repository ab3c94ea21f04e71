package configloader

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/yaklabco/infrared/pkg/config"
	"github.com/yaklabco/infrared/pkg/parser"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the name of the invalid field (e.g., "cache_format").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. Dialects are
// checked against the registry.
func Validate(cfg *config.Config, registry *parser.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if registry == nil {
		registry = parser.DefaultRegistry
	}

	if cfg.CacheFormat != "" && !cfg.CacheFormat.IsValid() {
		result.addError("cache_format", cfg.CacheFormat,
			"invalid cache format %q; must be one of: json, msgpack", cfg.CacheFormat)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			"invalid format %q; must be one of: text, json, summary", cfg.Format)
	}

	if cfg.Dialect != "" && cfg.Dialect != config.DialectAuto && !registry.Has(cfg.Dialect) {
		result.addError("dialect", cfg.Dialect,
			"unknown dialect %q; must be auto or one of: %s", cfg.Dialect, strings.Join(registry.Dialects(), ", "))
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateCacheDir(cfg, result)

	if cfg.ScratchRoot != "" && !filepath.IsAbs(cfg.ScratchRoot) {
		result.addWarning("scratch_root", cfg.ScratchRoot,
			"relative scratch root %q resolves against the working directory", cfg.ScratchRoot)
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.addWarning(fmt.Sprintf("extensions[%d]", i), ext,
				"extension %q has no leading dot; it will match as %q", ext, "."+ext)
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateCacheDir requires a single relative directory name that stays
// below the scratch root.
func validateCacheDir(cfg *config.Config, result *ValidationResult) {
	if cfg.CacheDir == "" {
		return
	}
	if filepath.IsAbs(cfg.CacheDir) {
		result.addError("cache_dir", cfg.CacheDir, "cache directory must be relative to the scratch root")
		return
	}
	for _, segment := range strings.Split(filepath.ToSlash(cfg.CacheDir), "/") {
		if segment == ".." {
			result.addError("cache_dir", cfg.CacheDir, "cache directory must not leave the scratch root")
			return
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// path.Match returns an error only for malformed patterns
		if _, err := path.Match(pattern, ""); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, registry *parser.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, registry)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
