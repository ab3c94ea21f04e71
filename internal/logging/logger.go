// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Environment variables that switch logging to debug level. DEBUG is
// honored for compatibility with older tooling.
const (
	EnvDebug       = "INFRARED_DEBUG"
	EnvLegacyDebug = "DEBUG"
)

//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var (
	defaultMu     sync.RWMutex
	defaultLogger *log.Logger
)

// New creates a logger writing to stderr at the given level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})

	setLoggerLevel(logger, level)

	return logger
}

// NewInteractive creates an info-level logger suited to where stderr goes:
// human-readable text on a terminal, timestamped logfmt otherwise.
func NewInteractive() *log.Logger {
	interactive := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // fd fits in int

	opts := log.Options{ReportTimestamp: !interactive}
	if !interactive {
		opts.Formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(os.Stderr, opts)
	logger.SetLevel(log.InfoLevel)
	return logger
}

// LevelFromEnv returns "debug" when INFRARED_DEBUG or DEBUG is set to a
// value other than "0" or "false", and fallback otherwise.
func LevelFromEnv(getenv func(string) string, fallback string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{EnvDebug, EnvLegacyDebug} {
		switch strings.ToLower(strings.TrimSpace(getenv(key))) {
		case "", "0", "false":
			continue
		default:
			return "debug"
		}
	}
	return fallback
}

func setLoggerLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	setLoggerLevel(Default(), level)
}
