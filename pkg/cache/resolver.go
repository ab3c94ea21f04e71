// Package cache maps source files to cache entry paths and writes parsed
// syntax trees to them.
package cache

import (
	"path/filepath"
	"strings"
)

// DefaultSubdir is the directory under the scratch root holding all entries.
const DefaultSubdir = "infrared-cache"

// Resolver computes cache entry paths. It never touches the file system.
type Resolver struct {
	// ScratchRoot is the base directory, typically os.TempDir().
	ScratchRoot string

	// Subdir is the fixed directory under ScratchRoot.
	Subdir string

	// Ext replaces the source extension, including its leading dot.
	Ext string
}

// NewResolver returns a Resolver. A non-empty ext without a leading dot gets one.
func NewResolver(scratchRoot, subdir, ext string) *Resolver {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Resolver{ScratchRoot: scratchRoot, Subdir: subdir, Ext: ext}
}

// Resolve maps a logical path to its cache entry path:
//
//	{ScratchRoot}/{Subdir}/{logicalPath with its extension replaced by Ext}
//
// Only the extension of the final element is replaced; a final element
// without one gets Ext appended. The logical path is cleaned as though it
// were rooted, so ".." segments and absolute paths stay inside
// ScratchRoot/Subdir.
func (r *Resolver) Resolve(logicalPath string) string {
	rel := filepath.FromSlash(logicalPath)
	rel = rel[len(filepath.VolumeName(rel)):]
	rel = filepath.Clean(string(filepath.Separator) + rel)

	return filepath.Join(r.ScratchRoot, r.Subdir, swapExt(rel, r.Ext))
}

func swapExt(path, ext string) string {
	base := filepath.Base(path)
	old := filepath.Ext(base)
	if old == base {
		// Dotfiles like ".eslintrc" have no extension to swap.
		old = ""
	}
	return path[:len(path)-len(old)] + ext
}
