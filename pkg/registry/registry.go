// Package registry provides a central registry of resource metadata.
// Commands resolve user-supplied resource names through it, so the CLI
// accepts both the collection path and the obvious singular form.
package registry

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/plasmalab/limsctl/pkg/schema"
)

// Registry is a thread-safe registry of resource metadata.
type Registry struct {
	mu        sync.RWMutex
	parser    *schema.Parser
	types     map[reflect.Type]*schema.ResourceMetadata
	resources map[string]*schema.ResourceMetadata
	aliases   map[string]string // normalized alias -> resource
	order     []string          // registration order, drives listings
}

// NewRegistry creates a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		parser:    schema.NewParser(),
		types:     make(map[reflect.Type]*schema.ResourceMetadata),
		resources: make(map[string]*schema.ResourceMetadata),
		aliases:   make(map[string]string),
	}
}

// Register registers a model type and extracts its metadata.
func (r *Registry) Register(model any) error {
	modelType := reflect.TypeOf(model)

	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	if modelType.Kind() != reflect.Struct {
		return fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[modelType]; ok {
		return nil // already registered
	}

	meta, err := r.parser.Parse(modelType)
	if err != nil {
		return fmt.Errorf("failed to parse model %s: %w", modelType.Name(), err)
	}

	if existing, ok := r.resources[meta.Resource]; ok && existing.GoType != modelType {
		return fmt.Errorf("resource %s already registered by %s", meta.Resource, existing.GoType.Name())
	}

	r.types[modelType] = meta
	r.resources[meta.Resource] = meta
	r.order = append(r.order, meta.Resource)

	for _, alias := range resourceAliases(meta.Resource) {
		r.aliases[alias] = meta.Resource
	}

	return nil
}

// Get retrieves ResourceMetadata by Go type.
func (r *Registry) Get(modelType reflect.Type) (*schema.ResourceMetadata, error) {
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	r.mu.RLock()
	meta, ok := r.types[modelType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("model type %s not registered", modelType.Name())
	}

	return meta, nil
}

// Lookup retrieves ResourceMetadata by resource name or one of its
// aliases (singular form, underscore spelling).
func (r *Registry) Lookup(name string) (*schema.ResourceMetadata, error) {
	normalized := normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if meta, ok := r.resources[normalized]; ok {
		return meta, nil
	}
	if resource, ok := r.aliases[normalized]; ok {
		return r.resources[resource], nil
	}

	return nil, fmt.Errorf("unknown resource %q (run `limsctl resources` for the list)", name)
}

// All returns all registered metadata in registration order.
func (r *Registry) All() []*schema.ResourceMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*schema.ResourceMetadata, 0, len(r.order))
	for _, resource := range r.order {
		out = append(out, r.resources[resource])
	}

	return out
}

// Resources returns all registered resource names in registration
// order.
func (r *Registry) Resources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Has checks if a resource name or alias is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Clear removes all registered models.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[reflect.Type]*schema.ResourceMetadata)
	r.resources = make(map[string]*schema.ResourceMetadata)
	r.aliases = make(map[string]string)
	r.order = nil
}

// normalize folds case and separator differences so lookups accept
// processed_results for processed-results.
func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// resourceAliases derives the accepted spellings for a resource path.
// Collection paths are plain plurals, so stripping the trailing s
// yields the singular alias.
func resourceAliases(resource string) []string {
	var aliases []string
	if singular := strings.TrimSuffix(resource, "s"); singular != resource {
		aliases = append(aliases, singular)
	}
	return aliases
}

// globalRegistry is the default global registry instance.
var globalRegistry = NewRegistry()

// Default returns the global registry, for wiring into components that
// take a *Registry.
func Default() *Registry {
	return globalRegistry
}

// Register registers a model in the global registry.
func Register(model any) error {
	return globalRegistry.Register(model)
}

// Get retrieves ResourceMetadata from the global registry.
func Get(modelType reflect.Type) (*schema.ResourceMetadata, error) {
	return globalRegistry.Get(modelType)
}

// Lookup retrieves ResourceMetadata by name from the global registry.
func Lookup(name string) (*schema.ResourceMetadata, error) {
	return globalRegistry.Lookup(name)
}

// All returns all registered metadata from the global registry.
func All() []*schema.ResourceMetadata {
	return globalRegistry.All()
}

// Resources returns all registered resource names from the global
// registry.
func Resources() []string {
	return globalRegistry.Resources()
}

// Clear clears the global registry.
func Clear() {
	globalRegistry.Clear()
}
