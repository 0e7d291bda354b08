// Package metrics provides Prometheus metrics for the lineup optimizer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the optimizer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Squad search
	searchRuns       *prometheus.CounterVec
	searchRounds     prometheus.Histogram
	searchLeaves     prometheus.Counter
	searchDuplicates prometheus.Counter
	searchRetained   prometheus.Gauge
	searchDuration   prometheus.Histogram

	// Catalogues
	catalogueSize          *prometheus.GaugeVec
	catalogueBuildDuration prometheus.Histogram
	poolJobs               *prometheus.CounterVec

	// Transfers
	transferRuns     *prometheus.CounterVec
	transferPairs    prometheus.Counter
	transferRetained prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByComponent   *prometheus.CounterVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Default latency buckets in milliseconds; searches run from sub-millisecond
// to minutes.
var defaultBuckets = []float64{0.5, 1, 5, 10, 50, 100, 500, 1000, 5000, 30000, 120000} //nolint:gochecknoglobals // constant table

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lineup",
		subsystem:        "optimizer",
		histogramBuckets: defaultBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.searchRuns = auto.NewCounterVec(m.counterOpts("search_runs_total", "Squad searches by outcome"), []string{"outcome"})
	m.searchRounds = auto.NewHistogram(m.histogramOpts("search_rounds", "Relaxation rounds used per squad search",
		[]float64{1, 2, 5, 10, 25, 50, 100, 250, 1000}))
	m.searchLeaves = auto.NewCounter(m.counterOpts("search_leaves_total", "Complete selections evaluated at the leaf level"))
	m.searchDuplicates = auto.NewCounter(m.counterOpts("search_duplicates_total", "Rediscovered squads skipped because they were already stored"))
	m.searchRetained = auto.NewGauge(m.gaugeOpts("search_retained", "Squads retained by the most recent search"))
	m.searchDuration = auto.NewHistogram(m.histogramOpts("search_duration_milliseconds", "Squad search wall time in milliseconds", m.histogramBuckets))

	m.catalogueSize = auto.NewGaugeVec(m.gaugeOpts("catalogue_size", "Combinations in the most recent catalogue per category"), []string{"category"})
	m.catalogueBuildDuration = auto.NewHistogram(m.histogramOpts("catalogue_build_duration_milliseconds", "Catalogue build time in milliseconds", m.histogramBuckets))
	m.poolJobs = auto.NewCounterVec(m.counterOpts("pool_jobs_total", "Catalogue build jobs by status"), []string{"status"})

	m.transferRuns = auto.NewCounterVec(m.counterOpts("transfer_runs_total", "Transfer searches by outcome"), []string{"outcome"})
	m.transferPairs = auto.NewCounter(m.counterOpts("transfer_pairs_total", "Sell/buy pairs evaluated"))
	m.transferRetained = auto.NewGauge(m.gaugeOpts("transfer_retained", "Transfer plans retained by the most recent search"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// Squad search.

// RecordSearchRun increments the search counter for outcome
// (found, empty, infeasible, cancelled).
func RecordSearchRun(outcome string) {
	globalManager.searchRuns.WithLabelValues(outcome).Inc()
}

// RecordSearchRounds observes the relaxation rounds a search used.
func RecordSearchRounds(rounds int) {
	globalManager.searchRounds.Observe(float64(rounds))
}

// AddSearchLeaves adds evaluated leaves.
func AddSearchLeaves(n uint64) {
	globalManager.searchLeaves.Add(float64(n))
}

// AddSearchDuplicates adds suppressed duplicates.
func AddSearchDuplicates(n uint64) {
	globalManager.searchDuplicates.Add(float64(n))
}

// UpdateSearchRetained sets the retained squad count.
func UpdateSearchRetained(n int) {
	globalManager.searchRetained.Set(float64(n))
}

// RecordSearchDuration records search wall time in milliseconds.
func RecordSearchDuration(ms float64) {
	globalManager.searchDuration.Observe(ms)
}

// Catalogues.

// UpdateCatalogueSize sets the catalogue size for a category.
func UpdateCatalogueSize(category string, size int) {
	globalManager.catalogueSize.WithLabelValues(category).Set(float64(size))
}

// RecordCatalogueBuildDuration records catalogue build time in milliseconds.
func RecordCatalogueBuildDuration(ms float64) {
	globalManager.catalogueBuildDuration.Observe(ms)
}

// RecordPoolJob increments the build-job counter for status (ok, error).
func RecordPoolJob(status string) {
	globalManager.poolJobs.WithLabelValues(status).Inc()
}

// Transfers.

// RecordTransferRun increments the transfer counter for outcome.
func RecordTransferRun(outcome string) {
	globalManager.transferRuns.WithLabelValues(outcome).Inc()
}

// AddTransferPairs adds evaluated sell/buy pairs.
func AddTransferPairs(n uint64) {
	globalManager.transferPairs.Add(float64(n))
}

// UpdateTransferRetained sets the retained plan count.
func UpdateTransferRetained(n int) {
	globalManager.transferRetained.Set(float64(n))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

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
