package provider

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
)

// registryEntry holds a provider's metadata and factory
type registryEntry struct {
	meta    ProviderMeta
	factory GeneratorFactory
}

// Registry manages provider registration and discovery
type Registry struct {
	mu      sync.RWMutex
	entries map[Provider]registryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Provider]registryEntry)}
}

// globalRegistry is the default registry instance
var globalRegistry = NewRegistry()

// Register registers a provider with its metadata and factory
func Register(meta ProviderMeta, factory GeneratorFactory) {
	globalRegistry.Register(meta, factory)
}

// Register registers a provider with its metadata and factory
func (r *Registry) Register(meta ProviderMeta, factory GeneratorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[meta.Provider] = registryEntry{
		meta:    meta,
		factory: factory,
	}
}

// GetGenerator returns a generator instance for the given provider
func GetGenerator(ctx context.Context, p Provider, creds Credentials) (Generator, error) {
	return globalRegistry.GetGenerator(ctx, p, creds)
}

// GetGenerator returns a generator instance for the given provider
func (r *Registry) GetGenerator(ctx context.Context, p Provider, creds Credentials) (Generator, error) {
	r.mu.RLock()
	entry, ok := r.entries[p]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, p)
	}
	return entry.factory(ctx, creds)
}

// GetMeta returns the metadata for a specific provider
func GetMeta(p Provider) (ProviderMeta, bool) {
	return globalRegistry.GetMeta(p)
}

// GetMeta returns the metadata for a specific provider
func (r *Registry) GetMeta(p Provider) (ProviderMeta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[p]
	if !ok {
		return ProviderMeta{}, false
	}
	return entry.meta, true
}

// LookupAPIKey returns the first non-empty credential env var of meta.
func LookupAPIKey(meta ProviderMeta) (string, bool) {
	for _, envVar := range meta.EnvVars {
		if v := os.Getenv(envVar); v != "" {
			return v, true
		}
	}
	return "", false
}

// IsReady checks if a credential environment variable is set for a provider
func IsReady(meta ProviderMeta) bool {
	_, ok := LookupAPIKey(meta)
	return ok
}

// GetAllMetas returns all registered provider metadata
func GetAllMetas() []ProviderMeta {
	return globalRegistry.GetAllMetas()
}

// GetAllMetas returns all registered provider metadata, sorted by name
func (r *Registry) GetAllMetas() []ProviderMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metas := make([]ProviderMeta, 0, len(r.entries))
	for _, entry := range r.entries {
		metas = append(metas, entry.meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Provider < metas[j].Provider
	})
	return metas
}

// ProviderStatus represents the connection status of a provider
type ProviderStatus string

const (
	StatusSelected      ProviderStatus = "selected"
	StatusAvailable     ProviderStatus = "available"
	StatusNotConfigured ProviderStatus = "not_configured"
)

// ProviderInfo contains provider metadata with its current status
type ProviderInfo struct {
	Meta   ProviderMeta
	Status ProviderStatus
}

// GetProvidersWithStatus returns all providers with their status relative
// to the selected one
func GetProvidersWithStatus(selected Provider) []ProviderInfo {
	return globalRegistry.GetProvidersWithStatus(selected)
}

// GetProvidersWithStatus returns all providers with their status relative
// to the selected one
func (r *Registry) GetProvidersWithStatus(selected Provider) []ProviderInfo {
	metas := r.GetAllMetas()
	result := make([]ProviderInfo, 0, len(metas))
	for _, meta := range metas {
		var status ProviderStatus
		switch {
		case meta.Provider == selected:
			status = StatusSelected
		case IsReady(meta):
			status = StatusAvailable
		default:
			status = StatusNotConfigured
		}
		result = append(result, ProviderInfo{Meta: meta, Status: status})
	}
	return result
}
