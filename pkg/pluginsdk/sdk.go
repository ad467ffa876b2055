// Package pluginsdk provides helper functions for WASM plugins.
//
// A plugin is a reactor module: the host runs _initialize, then calls the
// exported activate function once. The host passes the plugin's identity and
// merged configuration through the environment.
package pluginsdk

import (
	"encoding/json"
	"fmt"
	"os"
)

// Environment variables set by the host for every plugin module.
const (
	EnvPlugin    = "PLUGLOAD_PLUGIN"
	EnvPluginDir = "PLUGLOAD_PLUGIN_DIR"
	EnvConfig    = "PLUGLOAD_CONFIG"
)

// Name returns the plugin's name.
func Name() string {
	return os.Getenv(EnvPlugin)
}

// Dir returns the plugin's directory as seen by the host.
func Dir() string {
	return os.Getenv(EnvPluginDir)
}

// Config decodes the merged configuration record passed by the host.
func Config() (map[string]any, error) {
	raw := os.Getenv(EnvConfig)
	if raw == "" {
		return map[string]any{}, nil
	}

	var cfg map[string]any
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EnvConfig, err)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}

	return cfg, nil
}
