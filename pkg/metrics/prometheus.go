// Package metrics provides Prometheus metrics for the Fort Sentinel
// dispatch pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Pipeline metrics
	articlesClassified prometheus.Counter
	articlesSkipped    prometheus.Counter
	dispatchesWritten  prometheus.Counter
	dispatchesExisting prometheus.Counter
	classifyLatency    prometheus.Histogram
	voiceRouted        *prometheus.CounterVec

	// Store metrics
	storePutLatency  prometheus.Histogram
	storeListLatency prometheus.Histogram
	storeErrors      prometheus.Counter

	// Narration metrics
	sessionEntries     prometheus.Gauge
	sessionTransitions *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sentinel",
		subsystem:        "dispatch",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

	m.articlesClassified = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "articles_classified_total",
		Help:      "Total number of articles run through the tag classifier",
	})

	m.articlesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "articles_skipped_total",
		Help:      "Total number of articles skipped due to validation failures",
	})

	m.dispatchesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatches_written_total",
		Help:      "Total number of newly created dispatch records",
	})

	m.dispatchesExisting = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatches_existing_total",
		Help:      "Total number of idempotent no-op writes (record already present)",
	})

	m.classifyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classify_latency_milliseconds",
		Help:      "Histogram of tag classification latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.voiceRouted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "voice_routed_total",
			Help:      "Total number of dispatches routed per voice persona",
		},
		[]string{"voice"},
	)

	m.storePutLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_put_latency_milliseconds",
		Help:      "Dispatch store put latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeListLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_list_latency_milliseconds",
		Help:      "Dispatch store list latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of storage I/O errors",
	})

	m.sessionEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_entries",
		Help:      "Number of entries in the active narration session",
	})

	m.sessionTransitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "session_transitions_total",
			Help:      "Total number of narration entry state transitions",
		},
		[]string{"state"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the custom registry used for serving /healthz metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level record helpers operating on the global manager.

func RecordArticleClassified() {
	if globalManager.enabled {
		globalManager.articlesClassified.Inc()
	}
}

func RecordArticleSkipped() {
	if globalManager.enabled {
		globalManager.articlesSkipped.Inc()
	}
}

func RecordDispatchWritten() {
	if globalManager.enabled {
		globalManager.dispatchesWritten.Inc()
	}
}

func RecordDispatchExisting() {
	if globalManager.enabled {
		globalManager.dispatchesExisting.Inc()
	}
}

func RecordClassifyLatency(ms float64) {
	if globalManager.enabled {
		globalManager.classifyLatency.Observe(ms)
	}
}

func RecordVoiceRouted(voice string) {
	if globalManager.enabled {
		globalManager.voiceRouted.WithLabelValues(voice).Inc()
	}
}

func RecordStorePutLatency(ms float64) {
	if globalManager.enabled {
		globalManager.storePutLatency.Observe(ms)
	}
}

func RecordStoreListLatency(ms float64) {
	if globalManager.enabled {
		globalManager.storeListLatency.Observe(ms)
	}
}

func RecordStoreError() {
	if globalManager.enabled {
		globalManager.storeErrors.Inc()
	}
}

func UpdateSessionEntries(n int) {
	if globalManager.enabled {
		globalManager.sessionEntries.Set(float64(n))
	}
}

func RecordSessionTransition(state string) {
	if globalManager.enabled {
		globalManager.sessionTransitions.WithLabelValues(state).Inc()
	}
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}
