package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/andrei-cloud/plugload/internal/errorcodes"
	"github.com/andrei-cloud/plugload/pkg/pluginsdk"
)

// Exported guest functions the activator looks for.
const (
	ActivateExport   = "activate"
	InitializeExport = "_initialize"
)

// WasmActivator activates plugins whose entry point is a WebAssembly module.
// Each plugin is instantiated once and stays alive until Close.
type WasmActivator struct {
	fs      afero.Fs
	runtime wazero.Runtime
	modules map[string]api.Module
	mu      sync.Mutex
}

// NewWasmActivator creates a runtime with WASI and the host env module.
// A nil fs means the OS filesystem.
func NewWasmActivator(ctx context.Context, fs afero.Fs) (*WasmActivator, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)

		return nil, fmt.Errorf("failed to instantiate wasi: %w", err)
	}
	if err := NewHostFunctions(rt).Register(ctx); err != nil {
		_ = rt.Close(ctx)

		return nil, err
	}

	return &WasmActivator{fs: fs, runtime: rt, modules: make(map[string]api.Module)}, nil
}

// Activate compiles and instantiates the plugin's entry point, then calls its
// activate export when present. A plugin already active is left alone.
func (a *WasmActivator) Activate(ctx context.Context, p Plugin) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.modules[p.Name]; ok {
		return nil
	}

	code, err := afero.ReadFile(a.fs, p.EntryPoint)
	if err != nil {
		return errorcodes.ErrActivation.Wrap(fmt.Errorf("read %s: %w", p.EntryPoint, err))
	}

	compiled, err := a.runtime.CompileModule(ctx, code)
	if err != nil {
		return errorcodes.ErrActivation.Wrap(fmt.Errorf("compile %s: %w", p.EntryPoint, err))
	}

	cfgJSON, err := json.Marshal(p.Config)
	if err != nil {
		return errorcodes.ErrActivation.Wrap(fmt.Errorf("encode config of %s: %w", p.Name, err))
	}

	modCfg := wazero.NewModuleConfig().
		WithName(p.Name).
		WithStartFunctions(InitializeExport). // reactor modules only; missing functions are skipped
		WithEnv(pluginsdk.EnvPlugin, p.Name).
		WithEnv(pluginsdk.EnvPluginDir, p.Dir).
		WithEnv(pluginsdk.EnvConfig, string(cfgJSON))

	mod, err := a.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return errorcodes.ErrActivation.Wrap(fmt.Errorf("instantiate %s: %w", p.Name, err))
	}

	if fn := mod.ExportedFunction(ActivateExport); fn != nil {
		if _, err := fn.Call(ctx); err != nil {
			_ = mod.Close(ctx)

			return errorcodes.ErrActivation.Wrap(fmt.Errorf("%s.%s: %w", p.Name, ActivateExport, err))
		}
	}

	a.modules[p.Name] = mod
	log.Debug().
		Str("event", "wasm_instantiated").
		Str("plugin", p.Name).
		Bool("has_activate", mod.ExportedFunction(ActivateExport) != nil).
		Msg("loaded wasm plugin")

	return nil
}

// Activated returns the sorted names of the live plugin modules.
func (a *WasmActivator) Activated() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, 0, len(a.modules))
	for name := range a.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Close closes the underlying WASM runtime and every module in it.
func (a *WasmActivator) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.modules = make(map[string]api.Module)

	return a.runtime.Close(ctx)
}
