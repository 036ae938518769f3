// Package natives implements the native-function registry and the standard
// library that backs it.
//
// Natives are host-provided callables with a uniform signature: they receive
// an ordered argument list and return a value or a runtime error. The
// registry is the single name → callable map owned by the VM; the standard
// library registers exactly 75 natives across eight families.
package natives

import (
	"sort"
	"sync"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// Category represents a family of native functions.
type Category string

const (
	CategoryIO          Category = "io"
	CategoryMath        Category = "math"
	CategoryString      Category = "string"
	CategoryCollections Category = "collections"
	CategoryDateTime    Category = "datetime"
	CategorySystem      Category = "system"
	CategoryConvert     Category = "convert"
	CategoryRuntime     Category = "runtime"

	// CategoryHost holds natives defined by the embedding host rather than
	// the standard library.
	CategoryHost Category = "host"
)

// Func is the uniform native signature. Natives never overload by arity at
// the registry level; arity checks live inside the implementations.
type Func func(ctx Context, args []runtime.Value) (runtime.Value, error)

// Info holds metadata about one registered native.
type Info struct {
	Name        string
	Function    Func
	Category    Category
	Description string
}

// Registry manages native functions by name.
type Registry struct {
	mu         sync.RWMutex
	functions  map[string]*Info
	categories map[Category][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions:  make(map[string]*Info),
		categories: make(map[Category][]string),
	}
}

// Register adds a native to the registry, replacing any previous binding of
// the same name.
func (r *Registry) Register(name string, fn Func, category Category, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[name]; !exists {
		r.categories[category] = append(r.categories[category], name)
	}
	r.functions[name] = &Info{
		Name:        name,
		Function:    fn,
		Category:    category,
		Description: description,
	}
}

// Lookup returns the native registered under name.
func (r *Registry) Lookup(name string) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.functions[name]
	return info, ok
}

// Count returns the number of registered natives.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory returns the names registered under a category, sorted.
func (r *Registry) ByCategory(category Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.categories[category]...)
	sort.Strings(names)
	return names
}
