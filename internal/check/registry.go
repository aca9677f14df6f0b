package check

import (
	"errors"
	"fmt"
)

// Check names in the fixed catalog.
const (
	RustTests    = "rust-tests"
	FrontendLint = "frontend-lint"
	TypeCheck    = "type-check"
	FormatCheck  = "format-check"
)

// ErrUnknownCheck is returned by Registry.Lookup for a name not in the
// catalog. Use errors.Is to test for it.
var ErrUnknownCheck = errors.New("unknown check")

// Registry is the fixed catalog of check definitions. It is built once at
// startup and read-only afterward, so it needs no locking.
type Registry struct {
	order  []string
	byName map[string]Definition
}

// NewRegistry builds the standard catalog rooted at projectRoot.
// The rust-tests check runs in srcTauriDir; all other checks run in
// projectRoot.
func NewRegistry(projectRoot, srcTauriDir string) *Registry {
	return NewRegistryWith(
		Definition{
			Name:    RustTests,
			Label:   "Rust Tests",
			Command: []string{"cargo", "test", "--lib"},
			Dir:     srcTauriDir,
		},
		Definition{
			Name:    FrontendLint,
			Label:   "Frontend Lint",
			Command: []string{"bun", "run", "lint"},
			Dir:     projectRoot,
		},
		Definition{
			Name:    TypeCheck,
			Label:   "Type Check",
			Command: []string{"bun", "x", "tsc", "--noEmit"},
			Dir:     projectRoot,
		},
		Definition{
			Name:    FormatCheck,
			Label:   "Format Check",
			Command: []string{"bun", "run", "format:check"},
			Dir:     projectRoot,
		},
	)
}

// NewRegistryWith builds a registry from explicit definitions.
// Tests use this to substitute fake commands.
func NewRegistryWith(defs ...Definition) *Registry {
	r := &Registry{
		order:  make([]string, 0, len(defs)),
		byName: make(map[string]Definition, len(defs)),
	}
	for _, d := range defs {
		if _, dup := r.byName[d.Name]; dup {
			continue
		}
		r.order = append(r.order, d.Name)
		r.byName[d.Name] = d
	}
	return r
}

// Lookup returns the definition for name, or ErrUnknownCheck.
func (r *Registry) Lookup(name string) (Definition, error) {
	d, ok := r.byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	return d, nil
}

// All returns every definition in catalog order.
func (r *Registry) All() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.byName[name])
	}
	return defs
}

// Names returns the check names in catalog order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of definitions in the catalog.
func (r *Registry) Len() int {
	return len(r.order)
}
