package plugins

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// HostModule is the name of the module guests import host functions from.
const HostModule = "env"

// HostFunctions provides WASM host functions for plugins to use.
type HostFunctions struct {
	runtime wazero.Runtime
	builder wazero.HostModuleBuilder
}

// NewHostFunctions creates a new host functions provider.
func NewHostFunctions(runtime wazero.Runtime) *HostFunctions {
	return &HostFunctions{
		runtime: runtime,
		builder: runtime.NewHostModuleBuilder(HostModule),
	}
}

// Register adds all host functions to the WASM runtime.
func (h *HostFunctions) Register(ctx context.Context) error {
	h.builder.NewFunctionBuilder().
		WithFunc(h.logDebug).
		Export("log_debug")

	h.builder.NewFunctionBuilder().
		WithFunc(h.logInfo).
		Export("log_info")

	h.builder.NewFunctionBuilder().
		WithFunc(h.logError).
		Export("log_error")

	if _, err := h.builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("failed to instantiate host functions module: %w", err)
	}

	return nil
}

// readMemory safely reads bytes from WASM module memory.
func readMemory(mod api.Module, ptr, size uint32) ([]byte, error) {
	if mod == nil {
		return nil, fmt.Errorf("nil module")
	}

	memory := mod.Memory()
	if memory == nil {
		return nil, fmt.Errorf("no memory exported")
	}

	data, ok := memory.Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("failed to read memory at %d[%d]", ptr, size)
	}

	return data, nil
}

func (h *HostFunctions) logDebug(_ context.Context, mod api.Module, ptr, size uint32) {
	guestLog(log.Debug(), mod, ptr, size)
}

func (h *HostFunctions) logInfo(_ context.Context, mod api.Module, ptr, size uint32) {
	guestLog(log.Info(), mod, ptr, size)
}

func (h *HostFunctions) logError(_ context.Context, mod api.Module, ptr, size uint32) {
	guestLog(log.Error(), mod, ptr, size)
}

func guestLog(ev *zerolog.Event, mod api.Module, ptr, size uint32) {
	data, err := readMemory(mod, ptr, size)
	if err != nil {
		log.Error().Err(err).Msg("failed to read guest log message")
		return
	}

	ev.Str("source", "wasm").
		Str("plugin", mod.Name()).
		Msg(string(data))
}
