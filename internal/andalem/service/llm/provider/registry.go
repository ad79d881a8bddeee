package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
)

// Registry maps provider names, as used by the model catalog, to plugin
// factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]spi.PluginFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]spi.PluginFactory)}
}

// Register adds factory under name. A name can only be taken once.
func (r *Registry) Register(name string, factory spi.PluginFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(name, factory)
}

func (r *Registry) add(name string, factory spi.PluginFactory) error {
	if _, taken := r.factories[name]; taken {
		return fmt.Errorf("provider plugin %q registered twice", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register for static wiring; it panics on a duplicate name.
func (r *Registry) MustRegister(name string, factory spi.PluginFactory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (spi.PluginFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if factory, ok := r.factories[name]; ok {
		return factory, nil
	}
	return nil, fmt.Errorf("no provider plugin for %q", name)
}

// List returns the registered provider names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge registers every plugin of other. It stops at the first name taken.
func (r *Registry) Merge(other *Registry) error {
	for _, name := range other.List() {
		factory, err := other.Get(name)
		if err != nil {
			return err
		}
		if err := r.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Uncovered returns the providers of catalog models that no plugin serves.
// Those models fail to map at run time.
func (r *Registry) Uncovered(models []catalog.ModelEntry) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, m := range models {
		if _, ok := r.factories[m.Provider]; ok || seen[m.Provider] {
			continue
		}
		seen[m.Provider] = true
		out = append(out, m.Provider)
	}
	sort.Strings(out)
	return out
}
