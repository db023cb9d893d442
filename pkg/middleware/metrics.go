// Package middleware provides observability wrappers for the keystate
// inspector's HTTP surface: Prometheus metrics, an exporter bridging store
// Stats into Prometheus, and OpenTelemetry tracing.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/keystate-dev/keystate"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "keystate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "keystate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// httpMetrics holds the Prometheus metrics for inspector requests.
type httpMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func initHTTPMetrics(config MetricsConfig) *httpMetrics {
	factory := promauto.With(config.Registry)

	return &httpMetrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "inspector_requests_total",
			Help:        "Total number of inspector HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "inspector_request_duration_seconds",
			Help:        "Inspector request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// inspector requests.
//
// Metrics collected:
//   - keystate_inspector_requests_total: Counter of requests by path and status
//   - keystate_inspector_request_duration_seconds: Histogram of request duration
//
// Example:
//
//	srv := inspect.New(reg,
//	    inspect.WithMiddleware(middleware.Prometheus()),
//	)
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := initHTTPMetrics(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			m.requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
			m.requestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
		})
	}
}

// statusRecorder captures the response status for labeling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ExportStats registers gauges exposing a store Stats collector on the
// given Prometheus registerer. Gauges read the live counters on scrape.
//
// Metrics exported:
//   - keystate_instances
//   - keystate_writes_applied_total
//   - keystate_writes_rejected_total
//   - keystate_writes_dropped_total
//   - keystate_updates_total
//   - keystate_emissions_total
//   - keystate_listeners
//   - keystate_warnings_total
func ExportStats(stats *keystate.Stats, opts ...MetricsOption) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	gauge := func(name, help string, read func(keystate.StatsSnapshot) int64) {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, func() float64 {
			return float64(read(stats.Snapshot()))
		})
	}

	gauge("instances", "Number of registered instances",
		func(s keystate.StatsSnapshot) int64 { return s.Instances })
	gauge("writes_applied_total", "Store writes that committed",
		func(s keystate.StatsSnapshot) int64 { return s.WritesApplied })
	gauge("writes_rejected_total", "Store writes a validator refused",
		func(s keystate.StatsSnapshot) int64 { return s.WritesRejected })
	gauge("writes_dropped_total", "Writes discarded by computed setters or placeholders",
		func(s keystate.StatsSnapshot) int64 { return s.WritesDropped })
	gauge("updates_total", "Update assignments",
		func(s keystate.StatsSnapshot) int64 { return s.Updates })
	gauge("emissions_total", "Listener invocations",
		func(s keystate.StatsSnapshot) int64 { return s.Emissions })
	gauge("listeners", "Currently registered listeners",
		func(s keystate.StatsSnapshot) int64 { return s.Listeners })
	gauge("warnings_total", "Recoverable misuse reports",
		func(s keystate.StatsSnapshot) int64 { return s.Warnings })
}
