// Package metrics exposes Prometheus instrumentation for plugin loading.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the loader's collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry           *prometheus.Registry
	CacheRequests      *prometheus.CounterVec
	PluginsActivated   prometheus.Counter
	PluginsDiscovered  prometheus.Gauge
	InitializeDuration prometheus.Histogram
}

// New creates and registers the loader metrics.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plugload_cache_requests_total",
				Help: "Plugin configuration cache lookups by result",
			},
			[]string{"result"},
		),
		PluginsActivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plugload_plugins_activated_total",
			Help: "Plugins whose entry point was activated",
		}),
		PluginsDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plugload_plugins_discovered",
			Help: "Plugin directories found by the last discovery pass",
		}),
		InitializeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "plugload_initialize_duration_seconds",
			Help:    "Duration of plugin initialization",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.Registry.MustRegister(
		m.CacheRequests,
		m.PluginsActivated,
		m.PluginsDiscovered,
		m.InitializeDuration,
	)

	return m
}

// CacheHit records a cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues("hit").Inc()
}

// CacheMiss records a cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues("miss").Inc()
}

// Activated records one plugin activation.
func (m *Metrics) Activated() {
	if m == nil {
		return
	}
	m.PluginsActivated.Inc()
}

// Discovered records the size of the last discovery pass.
func (m *Metrics) Discovered(n int) {
	if m == nil {
		return
	}
	m.PluginsDiscovered.Set(float64(n))
}

// ObserveInitialize records how long initialization took.
func (m *Metrics) ObserveInitialize(d time.Duration) {
	if m == nil {
		return
	}
	m.InitializeDuration.Observe(d.Seconds())
}

// WriteText writes all collected metrics in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}

	families, err := m.Registry.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}

	return nil
}
