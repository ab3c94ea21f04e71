// Package fsutil provides the file system primitives used to read sources
// and write cache entries: classified read errors, directory creation and
// atomic replacement of files.
package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrNotDirectory indicates a path component that must be a directory is not.
	ErrNotDirectory = errors.New("path is not a directory")
)

// DefaultDirMode is the permission mode for directories created on demand.
const DefaultDirMode os.FileMode = 0o755

// FileInfo describes a source file as it was read.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time

	// Hash is the SHA-256 of the content that was read.
	Hash [sha256.Size]byte
}

// HashHex returns the content hash as lowercase hex.
func (fi *FileInfo) HashHex() string {
	return hex.EncodeToString(fi.Hash[:])
}

// ReadFile reads a whole file and returns its content with metadata.
// Failures are classified with ErrNotFound, ErrPermissionDenied and
// ErrIsDirectory.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify("stat", path, err)
	}
	if stat.IsDir() {
		return nil, nil, &fs.PathError{Op: "read", Path: path, Err: ErrIsDirectory}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify("read", path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Size:    int64(len(content)),
		ModTime: stat.ModTime(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// EnsureDir creates dir and any missing parents. It is a no-op when dir
// already exists as a directory.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		if errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf("%w: %s: %w", ErrNotDirectory, dir, err)
		}
		return classify("mkdir", dir, err)
	}
	return nil
}

func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
