package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerLevels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			InitLoggerTo(&bytes.Buffer{}, tt.in, false)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestStructuredEvents(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	var buf bytes.Buffer
	InitLoggerTo(&buf, "debug", false)

	LogCacheLookup("run-1", "00ff", true, 2)
	LogPluginActivated("run-1", "blog", "plugins/blog/blog.wasm")
	LogInitialized("run-1", 2, 1, true, time.Millisecond)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "cache_hit", first["event"])
	assert.Equal(t, "00ff", first["fingerprint"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "plugin_activated", second["event"])
	assert.Equal(t, "blog", second["plugin"])

	var third map[string]any
	require.NoError(t, json.Unmarshal(lines[2], &third))
	assert.Equal(t, true, third["cache_hit"])
	assert.Equal(t, float64(1), third["activated"])
}
