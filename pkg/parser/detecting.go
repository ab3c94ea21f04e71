package parser

import (
	"context"
	"fmt"

	"github.com/yaklabco/infrared/pkg/langdetect"
	"github.com/yaklabco/infrared/pkg/syntax"
)

// AutoDialect selects per-file dialect detection.
const AutoDialect = "auto"

// Detecting is a Provider that picks the dialect of each file with
// langdetect and delegates to the registered provider for it.
type Detecting struct {
	Registry *Registry

	// Fallback is used when detection finds nothing registered. Empty means
	// such files fail with ErrUnknownDialect.
	Fallback string
}

// Parse detects the dialect of path and parses content with it.
func (d *Detecting) Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error) {
	registry := d.Registry
	if registry == nil {
		registry = DefaultRegistry
	}

	dialect := langdetect.DialectFor(path, content)
	if dialect == "" || !registry.Has(dialect) {
		dialect = d.Fallback
	}
	if dialect == "" {
		return nil, fmt.Errorf("%w: cannot determine dialect of %s", ErrUnknownDialect, path)
	}

	provider, err := registry.Lookup(dialect)
	if err != nil {
		return nil, err
	}
	return provider.Parse(ctx, path, content)
}

// ForDialect returns a Provider for dialect, or a Detecting provider over
// registry when dialect is AutoDialect or empty.
//
//nolint:ireturn // callers choose between a fixed and a detecting provider
func ForDialect(registry *Registry, dialect string) (Provider, error) {
	if registry == nil {
		registry = DefaultRegistry
	}
	if dialect == "" || dialect == AutoDialect {
		return &Detecting{Registry: registry}, nil
	}
	return registry.Lookup(dialect)
}
