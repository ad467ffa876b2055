// Package registry holds the merged plugin configuration for the rest of the
// application. Values are addressable by dot-separated paths such as
// "plugins.blog.enabled".
package registry

import (
	"sort"
	"strings"
	"sync"
)

// PluginsPath is the registry path holding the full merged plugin mapping.
const PluginsPath = "plugins"

// Registry is a concurrency-safe, path-addressable configuration store.
type Registry struct {
	root map[string]any
	mu   sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{root: make(map[string]any)}
}

// SetPlugins replaces the whole plugin set.
func (r *Registry) SetPlugins(plugins map[string]Config) {
	m := make(map[string]any, len(plugins))
	for name, cfg := range plugins {
		if cfg == nil {
			cfg = Config{}
		}
		m[name] = cfg.Clone()
	}

	r.mu.Lock()
	r.root[PluginsPath] = m
	r.mu.Unlock()
}

// Plugins returns a copy of the merged plugin set.
func (r *Registry) Plugins() map[string]Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := asMap(r.root[PluginsPath])
	if !ok {
		return map[string]Config{}
	}

	out := make(map[string]Config, len(m))
	for name, v := range m {
		if cfg, ok := asMap(v); ok {
			out[name] = Config(cloneMap(cfg))
		}
	}

	return out
}

// Plugin returns a copy of one plugin record.
func (r *Registry) Plugin(name string) (Config, bool) {
	v, ok := r.Get(PluginsPath + "." + name)
	if !ok {
		return nil, false
	}

	m, ok := asMap(v)
	if !ok {
		return nil, false
	}

	return Config(cloneMap(m)), true
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	plugins := r.Plugins()
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Enabled reports whether plugins.<name>.enabled is truthy.
func (r *Registry) Enabled(name string) bool {
	cfg, ok := r.Plugin(name)

	return ok && cfg.Enabled()
}

// Set stores value at path, creating intermediate mappings as needed. An
// intermediate non-mapping value is replaced.
func (r *Registry) Set(path string, value any) {
	if path == "" {
		return
	}

	keys := strings.Split(path, ".")

	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.root
	for _, k := range keys[:len(keys)-1] {
		next, ok := asMap(node[k])
		if !ok {
			next = make(map[string]any)
			node[k] = next
		}
		node = next
	}
	node[keys[len(keys)-1]] = cloneValue(value)
}

// Get returns a copy of the value stored at path.
func (r *Registry) Get(path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var cur any = r.root
	for _, k := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}

	return cloneValue(cur), true
}
