package dynamic

import (
	"fmt"
	"sort"
)

// Registry holds the compiled first-party generators addressable from a
// manifest with `generator: {builtin: <id>}`.
type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{generators: map[string]Generator{}}
}

// Register adds a generator. Registering the same id twice is a programming error.
func (r *Registry) Register(id string, g Generator) {
	if _, exists := r.generators[id]; exists {
		panic(fmt.Sprintf("generator %q registered twice", id))
	}
	r.generators[id] = g
}

func (r *Registry) Get(id string) (Generator, bool) {
	g, ok := r.generators[id]
	return g, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.generators))
	for id := range r.generators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
