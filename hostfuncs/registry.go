package hostfuncs

import (
	"sort"

	"github.com/reglet-dev/scriptbridge/domain/entities"
)

// Registry is the binding table of one runtime, keyed by scope and script name.
// Registering a name that already exists in a scope replaces the old binding.
//
// A Registry is owned by a single runtime and, like the runtime, is not safe
// for concurrent use.
type Registry struct {
	scopes map[string]map[string]*Binding
}

// NewRegistry creates an empty binding table.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[string]map[string]*Binding)}
}

// Put stores b in its scope and returns the binding it replaced, if any.
func (r *Registry) Put(b *Binding) *Binding {
	scope, ok := r.scopes[b.scope]
	if !ok {
		scope = make(map[string]*Binding)
		r.scopes[b.scope] = scope
	}
	prev := scope[b.scriptName]
	scope[b.scriptName] = b
	return prev
}

// Lookup returns the binding registered under name in scope.
func (r *Registry) Lookup(scope, name string) (*Binding, bool) {
	b, ok := r.scopes[scope][name]
	return b, ok
}

// Names returns the sorted script names registered in scope.
func (r *Registry) Names(scope string) []string {
	names := make([]string, 0, len(r.scopes[scope]))
	for name := range r.scopes[scope] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scopes returns the sorted list of scopes holding at least one binding.
func (r *Registry) Scopes() []string {
	scopes := make([]string, 0, len(r.scopes))
	for scope, bindings := range r.scopes {
		if len(bindings) > 0 {
			scopes = append(scopes, scope)
		}
	}
	sort.Strings(scopes)
	return scopes
}

// Len returns the number of bindings across all scopes.
func (r *Registry) Len() int {
	n := 0
	for _, bindings := range r.scopes {
		n += len(bindings)
	}
	return n
}

// Clear removes every binding. Used when the owning runtime is released.
func (r *Registry) Clear() {
	r.scopes = make(map[string]map[string]*Binding)
}

// Descriptors returns every binding's descriptor ordered by scope then name.
func (r *Registry) Descriptors() []entities.BindingDescriptor {
	var out []entities.BindingDescriptor
	for _, scope := range r.Scopes() {
		for _, name := range r.Names(scope) {
			out = append(out, r.scopes[scope][name].Descriptor())
		}
	}
	return out
}
