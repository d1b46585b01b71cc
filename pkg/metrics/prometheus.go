// Package metrics provides Prometheus metrics for the scorecard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scorecard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Workbook lifecycle
	workbookUploads      prometheus.Counter
	workbookUploadErrors prometheus.Counter
	cellEdits            prometheus.Counter
	rowAppends           prometheus.Counter

	// Quality and scorecard passes
	checkPasses    prometheus.Counter
	findingsByKind *prometheus.GaugeVec

	// Export and warehouse sync
	exports     *prometheus.CounterVec
	exportBytes prometheus.Histogram
	syncRows    prometheus.Counter
	syncErrors  prometheus.Counter

	// Session state
	activeSessions prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System health
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
		namespace:        "scorecard",
		subsystem:        "app",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.workbookUploads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workbook_uploads_total",
		Help:      "Total number of workbooks successfully loaded",
	})

	m.workbookUploadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workbook_upload_errors_total",
		Help:      "Total number of rejected workbook uploads",
	})

	m.cellEdits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cell_edits_total",
		Help:      "Total number of in-place cell edits",
	})

	m.rowAppends = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "row_appends_total",
		Help:      "Total number of appended rows",
	})

	m.checkPasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quality_check_passes_total",
		Help:      "Total number of quality check passes over a workbook",
	})

	m.findingsByKind = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "quality_findings",
			Help:      "Findings reported by the most recent check pass, by kind",
		},
		[]string{"kind"},
	)

	m.exports = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "exports_total",
			Help:      "Total number of workbook and CSV exports by format",
		},
		[]string{"format"},
	)

	m.exportBytes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_bytes",
		Help:      "Size of exported payloads in bytes",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	})

	m.syncRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "warehouse_sync_rows_total",
		Help:      "Total number of rows pushed to the warehouse sink",
	})

	m.syncErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "warehouse_sync_errors_total",
		Help:      "Total number of failed warehouse sync attempts",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of live editing sessions",
	})

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

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordWorkbookUpload increments the successful upload counter.
func RecordWorkbookUpload() { globalManager.workbookUploads.Inc() }

// RecordWorkbookUploadError increments the rejected upload counter.
func RecordWorkbookUploadError() { globalManager.workbookUploadErrors.Inc() }

// RecordCellEdit increments the cell edit counter.
func RecordCellEdit() { globalManager.cellEdits.Inc() }

// RecordRowAppend increments the appended row counter.
func RecordRowAppend() { globalManager.rowAppends.Inc() }

// RecordCheckPass increments the quality check pass counter.
func RecordCheckPass() { globalManager.checkPasses.Inc() }

// UpdateFindings sets the finding gauge for one kind.
func UpdateFindings(kind string, count int) {
	globalManager.findingsByKind.WithLabelValues(kind).Set(float64(count))
}

// RecordExport counts one export and its payload size.
func RecordExport(format string, sizeBytes int) {
	globalManager.exports.WithLabelValues(format).Inc()
	globalManager.exportBytes.Observe(float64(sizeBytes))
}

// RecordSyncRows adds pushed rows to the warehouse counter.
func RecordSyncRows(rows int) { globalManager.syncRows.Add(float64(rows)) }

// RecordSyncError increments the failed sync counter.
func RecordSyncError() { globalManager.syncErrors.Inc() }

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(n int) { globalManager.activeSessions.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the allocated memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}
