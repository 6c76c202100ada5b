package schema

import (
	"slices"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry resolves component type names. Implementations must be safe for
// concurrent use.
type Registry interface {
	ResolveType(name string) (*ComponentType, error)
}

var _ Registry = (*MemoryRegistry)(nil)

// MemoryRegistry is a Registry held in memory.
type MemoryRegistry struct {
	mu    sync.RWMutex
	types map[string]*ComponentType
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{types: make(map[string]*ComponentType)}
}

// Register validates and adds a type. The registry keeps its own copy,
// including the signature slices.
func (r *MemoryRegistry) Register(ct ComponentType) error {
	if err := ct.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[ct.Name]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "%s", ct.Name)
	}
	c := ct
	c.Events = slices.Clone(ct.Events)
	c.Methods = slices.Clone(ct.Methods)
	c.Properties = slices.Clone(ct.Properties)
	for i := range c.Events {
		c.Events[i].Params = slices.Clone(c.Events[i].Params)
	}
	for i := range c.Methods {
		c.Methods[i].Params = slices.Clone(c.Methods[i].Params)
	}
	r.types[ct.Name] = &c
	return nil
}

// MustRegister is Register for statically known types; it panics on error.
func (r *MemoryRegistry) MustRegister(types ...ComponentType) {
	for _, ct := range types {
		if err := r.Register(ct); err != nil {
			panic(err)
		}
	}
}

// ResolveType returns the type registered under name.
func (r *MemoryRegistry) ResolveType(name string) (*ComponentType, error) {
	r.mu.RLock()
	ct, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrTypeNotFound, "%q", name)
	}
	return ct, nil
}

// Names returns the registered type names, sorted.
func (r *MemoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Types returns the registered types sorted by name.
func (r *MemoryRegistry) Types() []*ComponentType {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ComponentType, 0, len(names))
	for _, n := range names {
		if ct, ok := r.types[n]; ok {
			out = append(out, ct)
		}
	}
	return out
}

// Len returns the number of registered types.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Merge registers the types of other that r does not already have and
// returns how many were added. Types already in r are left alone; any
// other registration failure stops the merge.
func (r *MemoryRegistry) Merge(other *MemoryRegistry) (int, error) {
	added := 0
	for _, ct := range other.Types() {
		err := r.Register(*ct)
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrAlreadyRegistered):
		default:
			return added, err
		}
	}
	return added, nil
}
