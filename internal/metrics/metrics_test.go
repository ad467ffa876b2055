package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.Activated()
	m.Discovered(3)
	m.ObserveInitialize(20 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PluginsActivated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PluginsDiscovered))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.Activated()

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), "plugload_plugins_activated_total 1")
	assert.Contains(t, buf.String(), "# TYPE plugload_initialize_duration_seconds histogram")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CacheHit()
	m.CacheMiss()
	m.Activated()
	m.Discovered(1)
	m.ObserveInitialize(time.Second)
	assert.NoError(t, m.WriteText(&bytes.Buffer{}))
}
