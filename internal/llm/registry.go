package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/parley-ai/parley/internal/types"
)

// Registry manages provider registration and lookup with thread-safe
// operations. The CLI registers every configured provider at startup and
// resolves the default one by name; health probing walks all of them.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider under the given name. Registering the same
// name twice is an error; providers are wired once at startup.
func (r *Registry) Register(name string, provider Provider) error {
	if provider == nil {
		return types.NewError(ErrInvalidRequest, "provider cannot be nil")
	}

	name = NormalizeProviderName(name)
	if name == "" {
		return types.NewError(ErrInvalidRequest, "provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return types.NewError(ErrProviderInitFailed, fmt.Sprintf("provider %q already registered", name))
	}

	r.providers[name] = provider
	return nil
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[NormalizeProviderName(name)]
	if !exists {
		return nil, NewProviderNotFoundError(name)
	}

	return provider, nil
}

// List returns the names of all registered providers, sorted for stable
// output
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health probes every registered provider and returns the per-provider
// result, nil meaning healthy. Probes run sequentially; this is an
// operator command, not a hot path.
func (r *Registry) Health(ctx context.Context) map[string]error {
	r.mu.RLock()
	snapshot := make(map[string]Provider, len(r.providers))
	for name, p := range r.providers {
		snapshot[name] = p
	}
	r.mu.RUnlock()

	results := make(map[string]error, len(snapshot))
	for name, p := range snapshot {
		results[name] = p.Health(ctx)
	}
	return results
}
