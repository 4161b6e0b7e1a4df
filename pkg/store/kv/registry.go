package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory opens a substrate from its settings.
type Factory func(ctx context.Context, settings Settings) (Substrate, error)

// Registry manages substrate factories by backend name.
type Registry interface {
	// Register adds a new backend factory
	Register(backend string, factory Factory) error
	// Open instantiates the named backend with the provided settings
	Open(ctx context.Context, backend string, settings Settings) (Substrate, error)
	// ListBackends returns the registered backend names, sorted
	ListBackends() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry preloaded with the given factories.
func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{factories: make(map[string]Factory)}
	for name, f := range factories {
		r.factories[name] = f
	}
	return r
}

func (r *registry) Register(backend string, factory Factory) error {
	if backend == "" {
		return fmt.Errorf("backend name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[backend]; exists {
		return fmt.Errorf("backend %q is already registered", backend)
	}

	r.factories[backend] = factory
	return nil
}

func (r *registry) Open(ctx context.Context, backend string, settings Settings) (Substrate, error) {
	r.mu.RLock()
	factory, exists := r.factories[backend]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %q is not registered (available: %v)", backend, r.ListBackends())
	}

	return factory(ctx, settings)
}

func (r *registry) ListBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backends := make([]string, 0, len(r.factories))
	for name := range r.factories {
		backends = append(backends, name)
	}
	sort.Strings(backends)
	return backends
}
