package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds the files selected by opts and returns their absolute
// paths, sorted and without duplicates. Hidden files and directories are
// skipped unless named explicitly.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := newDiscoverer(workDir, opts)

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if d.wantFile(absPath) {
				d.add(absPath)
			}
			continue
		}

		if err := d.walk(ctx, absPath); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// LogicalPath returns absPath relative to workDir in slash form. Paths
// outside workDir keep their absolute form.
func LogicalPath(workDir, absPath string) string {
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(absPath[len(filepath.VolumeName(absPath)):])
	}
	return filepath.ToSlash(rel)
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type discoverer struct {
	workDir    string
	opts       Options
	extensions map[string]struct{}
	skipDirs   map[string]struct{}
	seen       map[string]struct{}
	files      []string
}

func newDiscoverer(workDir string, opts Options) *discoverer {
	d := &discoverer{
		workDir:    workDir,
		opts:       opts,
		extensions: make(map[string]struct{}),
		skipDirs:   make(map[string]struct{}),
		seen:       make(map[string]struct{}),
	}
	for _, ext := range opts.effectiveExtensions() {
		d.extensions[strings.ToLower(ext)] = struct{}{}
	}
	for _, dir := range opts.SkipDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			d.skipDirs[abs] = struct{}{}
		}
	}
	return d
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && d.skipDir(path, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.followSymlink(ctx, path)
		}

		if d.wantFile(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (d *discoverer) skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := d.skipDirs[path]; ok {
		return true
	}
	return matchAny(d.rel(path), d.opts.ExcludeGlobs)
}

// followSymlink handles a symlink found while walking. File links are
// treated as files; directory links are walked only with FollowSymlinks.
// Broken links are ignored.
func (d *discoverer) followSymlink(ctx context.Context, path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken symlinks are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}

	if !info.IsDir() {
		if d.wantFile(path) {
			d.add(path)
		}
		return nil
	}
	if !d.opts.FollowSymlinks {
		return nil
	}
	// Walk the target rather than the link; WalkDir does not follow links.
	return d.walk(ctx, target)
}

func (d *discoverer) wantFile(path string) bool {
	if _, ok := d.extensions[strings.ToLower(filepath.Ext(path))]; !ok {
		return false
	}

	rel := d.rel(path)
	if matchAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	return len(d.opts.IncludeGlobs) == 0 || matchAny(rel, d.opts.IncludeGlobs)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func matchAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a glob.
// Patterns without a slash also match the base name. "**" matches any
// number of path segments: "node_modules/**", "**/dist", "src/**/gen/*.js".
func matchGlob(relPath, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if !strings.Contains(pattern, "**") {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			ok, _ := filepath.Match(pattern, baseName(relPath))
			return ok
		}
		return false
	}

	return matchSegments(strings.Split(pattern, "/"), strings.Split(relPath, "/"))
}

func matchSegments(pattern, path []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(path); i++ {
				if matchSegments(rest, path[i:]) {
					return true
				}
			}
			return false
		}
		if len(path) == 0 {
			return false
		}
		if ok, _ := filepath.Match(pattern[0], path[0]); !ok {
			return false
		}
		pattern, path = pattern[1:], path[1:]
	}
	return len(path) == 0
}

func baseName(relPath string) string {
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		return relPath[idx+1:]
	}
	return relPath
}
