package plugins

import (
	"context"
	"sort"

	"github.com/andrei-cloud/plugload/internal/registry"
)

// Plugin is what an Activator receives for one enabled plugin.
type Plugin struct {
	Name       string
	Dir        string
	EntryPoint string // path of the executable entry file
	Config     registry.Config
}

// Activator runs a plugin's entry point. Implementations are called at most
// once per plugin and run in the caller's goroutine.
type Activator interface {
	Activate(ctx context.Context, p Plugin) error
}

// ActivatorFunc adapts a function to the Activator interface.
type ActivatorFunc func(ctx context.Context, p Plugin) error

// Activate calls f(ctx, p).
func (f ActivatorFunc) Activate(ctx context.Context, p Plugin) error {
	return f(ctx, p)
}

// nopActivator accepts every plugin without running anything.
var nopActivator = ActivatorFunc(func(context.Context, Plugin) error { return nil })

// SelectEnabled returns the sorted names of the enabled plugins.
func SelectEnabled(plugins map[string]registry.Config) []string {
	names := make([]string, 0, len(plugins))
	for name, cfg := range plugins {
		if cfg.Enabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}
