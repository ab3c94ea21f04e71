package cache

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/infrared/pkg/diag"
	"github.com/yaklabco/infrared/pkg/fsutil"
	"github.com/yaklabco/infrared/pkg/syntax"
)

// Persister writes syntax trees to cache entry paths.
type Persister struct {
	Codec Codec

	// FileMode for new entries; zero means fsutil.DefaultFileMode.
	FileMode os.FileMode
}

// NewPersister returns a Persister using codec, or JSON when codec is nil.
func NewPersister(codec Codec) *Persister {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Persister{Codec: codec}
}

// Persist encodes tree and writes it to cachePath, creating any missing
// directories. The write is atomic: an existing entry is replaced whole or
// left untouched. It returns the path written. Failures are
// *diag.IOFailure with Op "persist".
func (p *Persister) Persist(ctx context.Context, cachePath string, tree *syntax.Tree) (string, error) {
	data, err := p.Codec.Encode(tree)
	if err != nil {
		return "", &diag.IOFailure{Op: "persist", Path: cachePath, Err: err}
	}

	if err := fsutil.WriteAtomic(ctx, cachePath, data, p.FileMode); err != nil {
		return "", &diag.IOFailure{Op: "persist", Path: cachePath, Err: err}
	}

	return cachePath, nil
}

// Load reads the entry at path back into a tree.
func Load(path string, codec Codec) (*syntax.Tree, error) {
	data, _, err := fsutil.ReadFile(context.Background(), path)
	if err != nil {
		return nil, err
	}
	tree, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tree, nil
}
