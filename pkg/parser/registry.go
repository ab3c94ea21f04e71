// Package parser holds the registry of syntax tree providers. Provider
// packages register their dialects from init, so importing one for side
// effects makes its dialects available:
//
//	import _ "github.com/yaklabco/infrared/pkg/parser/treesitter"
package parser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/infrared/pkg/syntax"
)

// Provider produces a syntax tree from source text. path is a label used
// for dialect detection and messages; it is never opened. On malformed
// input the error is, or wraps, a *diag.ParseFailure.
type Provider interface {
	Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error)
}

// Factory creates a Provider for one dialect.
type Factory func() Provider

var (
	// ErrUnknownDialect is returned when no provider is registered for a dialect.
	ErrUnknownDialect = errors.New("unknown dialect")

	// ErrDuplicateDialect is returned when a dialect is registered twice.
	ErrDuplicateDialect = errors.New("dialect already registered")
)

// Registry maps dialect names to provider factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry is populated by provider packages at init time.
var DefaultRegistry = NewRegistry()

// Register adds a dialect to DefaultRegistry and panics on duplicates.
func Register(dialect string, factory Factory) {
	if err := DefaultRegistry.Register(dialect, factory); err != nil {
		panic(err)
	}
}

// Register adds a factory for dialect.
func (r *Registry) Register(dialect string, factory Factory) error {
	if dialect == "" || factory == nil {
		return fmt.Errorf("register dialect %q: empty name or nil factory", dialect)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[dialect]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDialect, dialect)
	}
	r.factories[dialect] = factory
	return nil
}

// Lookup returns a new provider for dialect.
func (r *Registry) Lookup(dialect string) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[dialect]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
	return factory(), nil
}

// Has reports whether dialect is registered.
func (r *Registry) Has(dialect string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[dialect]
	return ok
}

// Dialects returns the registered dialect names, sorted.
func (r *Registry) Dialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
