package report

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the report catalog by name.
type Registry interface {
	// Register adds a report definition
	Register(def Definition) error
	// Get returns the definition for the given report name
	Get(name string) (Definition, error)
	// List returns all definitions sorted by name
	List() []Definition
}

type registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry creates a registry pre-loaded with the default catalog.
func NewRegistry() (Registry, error) {
	r := &registry{definitions: make(map[string]Definition)}
	for _, def := range DefaultDefinitions() {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("report name cannot be empty")
	}
	if def.Query == "" {
		return fmt.Errorf("report %q has no query", def.Name)
	}
	if def.Bucket == "" {
		return fmt.Errorf("report %q has no time bucket", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Name]; exists {
		return fmt.Errorf("report %q is already registered", def.Name)
	}

	r.definitions[def.Name] = def
	return nil
}

func (r *registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.definitions[name]
	if !exists {
		return Definition{}, fmt.Errorf("report %q is not registered", name)
	}
	return def, nil
}

func (r *registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
