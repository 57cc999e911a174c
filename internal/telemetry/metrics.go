// Package telemetry holds the Prometheus collectors and OpenTelemetry tracer
// shared by the template engine and the playground server.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "cellbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compile duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "cellbind",
		Buckets:   []float64{.00005, .0001, .0005, .001, .005, .01, .05, .1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	compiles        prometheus.Counter
	compileDuration prometheus.Histogram
	placeholders    *prometheus.CounterVec
	diagnostics     *prometheus.CounterVec
	mounts          prometheus.Counter
	unmounts        prometheus.Counter
	cleanupEntries  prometheus.Gauge
	listRerenders   prometheus.Counter
	events          *prometheus.CounterVec
	clients         prometheus.Gauge
}

// NewMetrics registers the collectors with the configured registry. Call it
// once per registry; registering twice panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		compiles: counter("compiles_total", "Templates compiled"),

		compileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_duration_seconds",
			Help:        "Template compile and rehydration time",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		placeholders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "placeholders_total",
			Help:        "Embedded template values by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diagnostics_total",
			Help:        "Reported non-fatal errors by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		mounts:        counter("mounts_total", "Components mounted"),
		unmounts:      counter("unmounts_total", "Nodes unmounted"),
		listRerenders: counter("list_rerenders_total", "Reactive list full replacements"),

		cleanupEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cleanup_entries",
			Help:        "Nodes holding recorded cleanups",
			ConstLabels: config.ConstLabels,
		}),

		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "playground_events_total",
			Help:        "Events dispatched through the playground",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "playground_clients",
			Help:        "Connected playground WebSocket clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveCompile records one compile pass.
func (m *Metrics) ObserveCompile(d time.Duration) {
	if m == nil {
		return
	}
	m.compiles.Inc()
	m.compileDuration.Observe(d.Seconds())
}

// RecordPlaceholder counts one embedded value of the given kind.
func (m *Metrics) RecordPlaceholder(kind string) {
	if m == nil {
		return
	}
	m.placeholders.WithLabelValues(kind).Inc()
}

// RecordDiagnostic counts one reported error code.
func (m *Metrics) RecordDiagnostic(code string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(code).Inc()
}

// RecordMount counts one mounted component.
func (m *Metrics) RecordMount() {
	if m == nil {
		return
	}
	m.mounts.Inc()
}

// RecordUnmount counts one unmounted node.
func (m *Metrics) RecordUnmount() {
	if m == nil {
		return
	}
	m.unmounts.Inc()
}

// RecordListRerender counts one list replacement.
func (m *Metrics) RecordListRerender() {
	if m == nil {
		return
	}
	m.listRerenders.Inc()
}

// SetCleanupEntries sets the registry size gauge.
func (m *Metrics) SetCleanupEntries(n int) {
	if m == nil {
		return
	}
	m.cleanupEntries.Set(float64(n))
}

// RecordEvent counts one playground event.
func (m *Metrics) RecordEvent(typ string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.events.WithLabelValues(typ, status).Inc()
}

// ClientConnected adjusts the connected client gauge by delta.
func (m *Metrics) ClientConnected(delta int) {
	if m == nil {
		return
	}
	m.clients.Add(float64(delta))
}
