// Package metrics provides Prometheus instrumentation for request dispatches.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for a finished dispatch.
const (
	OutcomeSuccess     = "success"
	OutcomeTransport   = "transport_error"
	OutcomeApplication = "application_error"
	OutcomeDecode      = "decode_error"
)

// Recorder receives one observation per dispatch.
type Recorder interface {
	ObserveDispatch(resource, method string, status int, outcome string, elapsed time.Duration)
}

// Nop discards all observations.
type Nop struct{}

// ObserveDispatch implements Recorder.
func (Nop) ObserveDispatch(string, string, int, string, time.Duration) {}

// Manager records dispatch counters and latency histograms.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytesIn  *prometheus.CounterVec
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ruoyi",
		subsystem:        "client",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.requests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "requests_total",
		Help:        "Dispatched requests by resource, method, status and outcome",
		ConstLabels: m.constLabels,
	}, []string{"resource", "method", "status", "outcome"})

	m.duration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "request_duration_seconds",
		Help:        "Round-trip latency of dispatched requests",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"resource", "method"})

	m.bytesIn = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "response_bytes_total",
		Help:        "Response body bytes received",
		ConstLabels: m.constLabels,
	}, []string{"resource"})
}

// ObserveDispatch implements Recorder.
func (m *Manager) ObserveDispatch(resource, method string, status int, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(resource, method, strconv.Itoa(status), outcome).Inc()
	m.duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// ObserveBytes adds n response bytes for resource.
func (m *Manager) ObserveBytes(resource string, n int) {
	m.bytesIn.WithLabelValues(resource).Add(float64(n))
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithConstLabels attaches fixed labels to every series.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		m.constLabels = labels
	}
}

// WithRegistry registers collectors on r instead of the default registerer.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
