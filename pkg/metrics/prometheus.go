// Package metrics provides Prometheus metrics for the muster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Manager manages all Prometheus metrics for the muster service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Scenario engine
	scenarioRuns     *prometheus.CounterVec
	scenarioDuration *prometheus.HistogramVec

	// Roster
	rosterSize         prometheus.Gauge
	rosterFetches      *prometheus.CounterVec
	rosterFetchLatency *prometheus.HistogramVec
	rosterCache        *prometheus.CounterVec
	rejectedRecords    *prometheus.CounterVec
	storeQueryLatency  *prometheus.HistogramVec

	// Jobs
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueRejected     *prometheus.CounterVec
	jobOutcomes       *prometheus.CounterVec
	jobLatency        prometheus.Histogram
	workerActiveCount prometheus.Gauge

	// Errors
	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "muster",
		subsystem:        "analytics",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.scenarioRuns = m.counterVec("scenario_runs_total",
		"Scenario analyses run, by kind and outcome", "kind", "outcome")
	m.scenarioDuration = m.histogramVec("scenario_duration_milliseconds",
		"Scenario analysis duration in milliseconds", "kind")

	m.rosterSize = m.gauge("roster_size", "Number of records in the last fetched roster")
	m.rosterFetches = m.counterVec("roster_fetches_total",
		"Roster fetches by source and outcome", "source", "outcome")
	m.rosterFetchLatency = m.histogramVec("roster_fetch_latency_milliseconds",
		"Roster fetch latency in milliseconds", "source")
	m.rosterCache = m.counterVec("roster_cache_requests_total",
		"Roster cache lookups by result", "result")
	m.rejectedRecords = m.counterVec("roster_rejected_records_total",
		"Roster records rejected by schema validation, by field", "field")
	m.storeQueryLatency = m.histogramVec("store_query_latency_milliseconds",
		"Roster store query latency in milliseconds", "operation")

	m.queueSize = m.gauge("job_queue_size", "Current number of queued simulation jobs")
	m.queueCapacity = m.gauge("job_queue_capacity", "Maximum number of queued simulation jobs")
	m.queueEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "job_queue_enqueued_total",
		Help:        "Simulation jobs accepted by the queue",
		ConstLabels: m.constLabels,
	})
	m.queueRejected = m.counterVec("job_queue_rejected_total",
		"Simulation jobs rejected by the queue, by reason", "reason")
	m.jobOutcomes = m.counterVec("jobs_total",
		"Simulation jobs finished, by kind and status", "kind", "status")
	m.jobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "job_latency_milliseconds",
		Help:        "Time from job dequeue to stored result in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.workerActiveCount = m.gauge("worker_active_count", "Number of running job workers")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Errors by component and error type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Current number of goroutines")
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordScenarioRun counts a scenario run and its duration.
func RecordScenarioRun(kind, outcome string, durationMs float64) {
	globalManager.scenarioRuns.WithLabelValues(kind, outcome).Inc()
	globalManager.scenarioDuration.WithLabelValues(kind).Observe(durationMs)
}

// UpdateRosterSize sets the size of the last fetched roster.
func UpdateRosterSize(size int) {
	globalManager.rosterSize.Set(float64(size))
}

// RecordRosterFetch counts a roster fetch and its latency.
func RecordRosterFetch(source, outcome string, latencyMs float64) {
	globalManager.rosterFetches.WithLabelValues(source, outcome).Inc()
	globalManager.rosterFetchLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordRosterCache counts a cache lookup; result is hit or miss.
func RecordRosterCache(result string) {
	globalManager.rosterCache.WithLabelValues(result).Inc()
}

// RecordRejectedRecord counts a record that failed validation on field.
func RecordRejectedRecord(field string) {
	globalManager.rejectedRecords.WithLabelValues(field).Inc()
}

// RecordStoreQueryLatency records a roster store operation latency.
func RecordStoreQueryLatency(operation string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordJobOutcome counts a finished job and its latency.
func RecordJobOutcome(kind, status string, latencyMs float64) {
	globalManager.jobOutcomes.WithLabelValues(kind, status).Inc()
	globalManager.jobLatency.Observe(latencyMs)
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
