// Package config defines core configuration types for infrared.
// These types are pure data; discovery, merging and validation live in
// internal/configloader.
package config

import (
	"os"
	"slices"
)

// CacheFormat names the on-disk encoding of cache entries.
type CacheFormat string

const (
	CacheFormatJSON    CacheFormat = "json"
	CacheFormatMsgpack CacheFormat = "msgpack"
)

// IsValid returns true if the cache format is known.
func (f CacheFormat) IsValid() bool {
	switch f {
	case CacheFormatJSON, CacheFormatMsgpack:
		return true
	default:
		return false
	}
}

// OutputFormat specifies the output format for run results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// DialectAuto selects a parser per file from its name and content.
const DialectAuto = "auto"

// DefaultCacheDir is the directory created under the scratch root.
const DefaultCacheDir = "infrared-cache"

// Config is the root configuration structure for infrared.
type Config struct {
	// ScratchRoot is the directory the cache tree is created under.
	ScratchRoot string `yaml:"scratch_root,omitempty" toml:"scratch_root,omitempty"`

	// CacheDir is the cache directory name below ScratchRoot.
	CacheDir string `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`

	// CacheFormat selects the cache entry encoding.
	CacheFormat CacheFormat `yaml:"cache_format,omitempty" toml:"cache_format,omitempty"`

	// Dialect forces a single parser dialect, or "auto".
	Dialect string `yaml:"dialect,omitempty" toml:"dialect,omitempty"`

	// Extensions limits discovery to these file extensions. Empty means
	// every extension a registered dialect handles.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Jobs is the number of parallel workers (0 = one per CPU).
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format,omitempty" toml:"format,omitempty"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		ScratchRoot: os.TempDir(),
		CacheDir:    DefaultCacheDir,
		CacheFormat: CacheFormatJSON,
		Dialect:     DialectAuto,
		Format:      FormatText,
		Jobs:        0,
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)
	return &clone
}
