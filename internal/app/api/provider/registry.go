package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a Vendor from configuration.
type Factory func(cfg Config) (Vendor, error)

// Registry maps vendor names to factories. Vendor packages register
// themselves from init so that main selects them with a blank import.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	envVars   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		envVars:   make(map[string]string),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by init-time
// registration.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a factory under name. envVar names the environment variable
// that holds the vendor's credential.
func (r *Registry) Register(name, envVar string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("vendor name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("vendor factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("vendor '%s' already registered", name)
	}
	r.factories[name] = factory
	r.envVars[name] = envVar
	return nil
}

// MustRegister is Register for init functions.
func (r *Registry) MustRegister(name, envVar string, factory Factory) {
	if err := r.Register(name, envVar, factory); err != nil {
		panic(err)
	}
}

// Create builds the named vendor. A missing API key is reported as a
// configuration error before the factory runs.
func (r *Registry) Create(name string, cfg Config) (Vendor, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	envVar := r.envVars[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("vendor '%s' not found (available: %v)", name, r.Names())
	}
	if cfg.APIKey == "" {
		return nil, MissingAPIKey(name, envVar)
	}
	return factory(cfg)
}

// EnvVar returns the credential variable registered for name.
func (r *Registry) EnvVar(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.envVars[name]
}

// Names lists registered vendors in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
