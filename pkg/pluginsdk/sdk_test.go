package pluginsdk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]any
		wantErr bool
	}{
		{"unset", "", map[string]any{}, false},
		{"null", "null", map[string]any{}, false},
		{"record", `{"enabled":true,"title":"My Blog","limit":5}`,
			map[string]any{"enabled": true, "title": "My Blog", "limit": float64(5)}, false},
		{"broken", `{"enabled":`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfig, tt.raw)

			got, err := Config()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity(t *testing.T) {
	t.Setenv(EnvPlugin, "blog")
	t.Setenv(EnvPluginDir, "plugins/blog")

	assert.Equal(t, "blog", Name())
	assert.Equal(t, "plugins/blog", Dir())
}

func TestLogOutsideHost(t *testing.T) {
	t.Setenv(EnvPlugin, "blog")

	var buf bytes.Buffer
	prev := Output
	Output = &buf
	t.Cleanup(func() { Output = prev })

	Info("ready")
	Error("failed")

	assert.Equal(t, "INF blog: ready\nERR blog: failed\n", buf.String())
}
