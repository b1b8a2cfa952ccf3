package driver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates a driver for one device. The device identifier is its only input.
type Factory func(deviceID string) (Driver, error)

// Entry is one registered driver implementation.
type Entry struct {
	Namespace string
	Name      string
	// Target describes where the implementation lives, e.g. "pica8.New".
	Target  string
	Factory Factory
}

// String renders the entry the way it was declared: "name = target".
func (e Entry) String() string {
	if e.Target == "" {
		return e.Name
	}
	return e.Name + " = " + e.Target
}

type registryKey struct {
	namespace string
	name      string
}

// Registry maps namespaced driver names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[registryKey][]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[registryKey][]Entry),
	}
}

// Register adds a factory under namespace and name. Registering a name twice
// is allowed; lookups of that name then fail with ErrNoUniqueMatch.
func (r *Registry) Register(namespace, name, target string, factory Factory) error {
	if namespace == "" || name == "" {
		return errors.New("driver namespace and name are required")
	}
	if factory == nil {
		return fmt.Errorf("driver %s.%s has no factory", namespace, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{namespace: namespace, name: name}
	r.entries[key] = append(r.entries[key], Entry{
		Namespace: namespace,
		Name:      name,
		Target:    target,
		Factory:   factory,
	})
	return nil
}

// MustRegister is like Register but panics on invalid input.
func (r *Registry) MustRegister(namespace, name, target string, factory Factory) {
	if err := r.Register(namespace, name, target, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the single entry registered under namespace and name.
func (r *Registry) Lookup(namespace, name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.entries[registryKey{namespace: namespace, name: name}]

	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrDriverNotFound, qualify(namespace, name))
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, 0, len(matches))
		for _, m := range matches {
			candidates = append(candidates, m.String())
		}
		return Entry{}, fmt.Errorf("%w: %s (%s)", ErrNoUniqueMatch, qualify(namespace, name), strings.Join(candidates, ", "))
	}
}

// Names returns the sorted driver names registered in namespace.
func (r *Registry) Names(namespace string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := []string{}
	for key, matches := range r.entries {
		if key.namespace == namespace && len(matches) > 0 {
			names = append(names, key.name)
		}
	}
	sort.Strings(names)
	return names
}

// qualify renders a namespaced name for messages.
func qualify(namespace, name string) string {
	return namespace + "." + name
}
