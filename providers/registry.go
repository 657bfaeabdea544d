package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/petal-labs/chatgate/core"
)

// Constructor builds a provider from its configuration. Constructors must
// not perform network I/O; they run under the registry lock.
type Constructor func(cfg core.ProviderConfig) (core.Provider, error)

// registry holds the constructors linked into the binary.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register adds a provider constructor to the build-time table.
// It is typically called from a provider's init() function.
// Names are case-insensitive; a second registration under the same name
// replaces the first.
//
// Example usage in a provider package:
//
//	func init() {
//	    providers.Register("openai", func(cfg core.ProviderConfig) (core.Provider, error) {
//	        return NewFromConfig(cfg)
//	    })
//	}
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// List returns the names of all registered providers in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// IsRegistered returns true if a provider with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Registry owns the provider instances of one gateway. Each key is
// constructed at most once, on first use, and the instance is kept for the
// life of the Registry.
type Registry struct {
	mu        sync.Mutex
	ctors     map[string]Constructor
	configs   map[string]core.ProviderConfig
	instances map[string]core.Provider
	logger    *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for construction and health events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry snapshots the build-time table. cfg holds per-provider
// configuration keyed by provider name; missing entries get a zero config,
// leaving each provider to its environment defaults.
func NewRegistry(cfg map[string]core.ProviderConfig, opts ...RegistryOption) *Registry {
	registryMu.RLock()
	ctors := maps.Clone(registry)
	registryMu.RUnlock()

	configs := make(map[string]core.ProviderConfig, len(cfg))
	for name, c := range cfg {
		configs[strings.ToLower(name)] = c
	}

	r := &Registry{
		ctors:     ctors,
		configs:   configs,
		instances: make(map[string]core.Provider),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "registry")
	return r
}

// Register adds or replaces a constructor on this registry only. Any cached
// instance for name is discarded.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(name)
	r.ctors[key] = ctor
	delete(r.instances, key)
}

// Get returns the provider registered under name, constructing it on first
// access. Unknown names yield *core.UnknownProviderError; construction
// failures yield *core.ConfigError and are retried on the next call.
func (r *Registry) Get(name string) (core.Provider, error) {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.instances[key]; ok {
		return p, nil
	}

	ctor, ok := r.ctors[key]
	if !ok {
		return nil, &core.UnknownProviderError{
			Name:      name,
			Available: slices.Sorted(maps.Keys(r.ctors)),
		}
	}

	p, err := ctor(r.configs[key])
	if err != nil {
		r.logger.Warn("provider construction failed", "provider", key, "error", err)
		var cfgErr *core.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &core.ConfigError{Provider: key, Err: err}
	}
	if p == nil {
		return nil, &core.ConfigError{Provider: key, Message: "constructor returned no provider"}
	}

	r.instances[key] = p
	r.logger.Info("provider initialized", "provider", key, "default_model", p.DefaultModel())
	return p, nil
}

// List returns the registered provider names in sorted order.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.ctors))
}

// CheckHealth reports whether name can be constructed and answers its
// availability probe. It never fails: errors and panics count as unhealthy.
func (r *Registry) CheckHealth(ctx context.Context, name string) (healthy bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("health check panicked", "provider", name, "panic", fmt.Sprint(rec))
			healthy = false
		}
	}()

	p, err := r.Get(name)
	if err != nil {
		r.logger.Debug("health check skipped", "provider", name, "error", err)
		return false
	}
	return p.IsAvailable(ctx)
}

// HealthAll probes every registered provider concurrently.
func (r *Registry) HealthAll(ctx context.Context) map[string]bool {
	names := r.List()

	var mu sync.Mutex
	results := make(map[string]bool, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			ok := r.CheckHealth(gctx, name)
			mu.Lock()
			results[name] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
