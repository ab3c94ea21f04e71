// Package runner processes many source files concurrently through a
// pipeline.Pipeline.
package runner

import "github.com/yaklabco/infrared/pkg/langdetect"

// Options controls discovery and processing.
type Options struct {
	// Paths are files or directories to process. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and anchors logical paths. Empty
	// means the process working directory.
	WorkingDir string

	// Extensions are the lowercase extensions, with leading dot, of files
	// to process. Empty means every extension langdetect knows.
	Extensions []string

	// IncludeGlobs, when set, restrict processing to matching paths
	// relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// SkipDirs are absolute directories never descended into, such as the
	// cache directory when it lives inside the tree being processed.
	SkipDirs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs caps concurrent ProcessFile calls. 0 or negative means
	// runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the extensions of every known dialect.
func DefaultExtensions() []string {
	return langdetect.Extensions()
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
