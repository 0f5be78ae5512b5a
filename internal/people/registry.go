package people

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/config"
)

// BackendOptions carries what a backend factory may need to build a backend
type BackendOptions struct {
	Config *config.Config
	Logger *zap.Logger

	// In and Out are used by backends that need to talk to the user,
	// e.g. to complete an authorization flow
	In  io.Reader
	Out io.Writer
}

// BackendFactory is a function that creates a new instance of a Backend
type BackendFactory func(ctx context.Context, opts BackendOptions) (Backend, error)

// Registry manages available directory backends
type Registry struct {
	mu       sync.RWMutex
	backends map[string]BackendFactory
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]BackendFactory),
	}
}

// Register adds a new backend factory to the registry
func (r *Registry) Register(name string, factory BackendFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return fmt.Errorf("backend %s already registered", name)
	}

	r.backends[name] = factory
	return nil
}

// Open instantiates a backend by name
func (r *Registry) Open(ctx context.Context, name string, opts BackendOptions) (Backend, error) {
	r.mu.RLock()
	factory, exists := r.backends[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %s not registered (available: %v)", name, r.List())
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	backend, err := factory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening backend %s: %w", name, err)
	}
	return backend, nil
}

// List returns all registered backend names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry instance
var defaultRegistry = NewRegistry()

// Register adds a backend to the global registry
func Register(name string, factory BackendFactory) error {
	return defaultRegistry.Register(name, factory)
}

// OpenBackend creates a backend from the global registry
func OpenBackend(ctx context.Context, name string, opts BackendOptions) (Backend, error) {
	return defaultRegistry.Open(ctx, name, opts)
}

// ListBackends returns all registered backend names from the global registry
func ListBackends() []string {
	return defaultRegistry.List()
}
