package prometheus

import (
	"strconv"
	"time"
)

// DashboardMetrics holds every metric family the dashboard exports.
type DashboardMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Refresh pipeline
	RefreshTotal            CounterVec
	RefreshDuration         HistogramVec
	DatasetRecords          GaugeVec
	FilteredRecords         GaugeVec
	UndatedRecords          GaugeVec
	UnknownIdentifierLinks  GaugeVec
	DatasetValidationsTotal CounterVec

	// Uploads
	UploadsTotal    CounterVec
	UploadSizeBytes HistogramVec

	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRefreshDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 60}
	DefaultSizeBuckets            = []float64{1 << 10, 1 << 14, 1 << 17, 1 << 20, 1 << 23, 1 << 25}
)

// NewDashboardMetrics registers all metric families on collector.
func NewDashboardMetrics(collector MetricsCollector) *DashboardMetrics {
	m := &DashboardMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.RefreshTotal = collector.RegisterCounter("refresh_total", "Dashboard refresh cycles", "source", "status")
	m.RefreshDuration = collector.RegisterHistogram("refresh_duration_seconds", "Dashboard refresh duration", DefaultRefreshDurationBuckets, "source")
	m.DatasetRecords = collector.RegisterGauge("dataset_records", "Records in the last loaded dataset", "source")
	m.FilteredRecords = collector.RegisterGauge("filtered_records", "Records passing the last filter", "source")
	m.UndatedRecords = collector.RegisterGauge("undated_records", "Filtered records with an unparsable publication date", "source")
	m.UnknownIdentifierLinks = collector.RegisterGauge("unknown_identifier_links", "Links whose identifier code is unknown", "source")
	m.DatasetValidationsTotal = collector.RegisterCounter("dataset_validations_total", "Dataset file validations triggered by the watcher", "result")

	m.UploadsTotal = collector.RegisterCounter("uploads_total", "Dataset uploads", "status")
	m.UploadSizeBytes = collector.RegisterHistogram("upload_size_bytes", "Accepted upload size", DefaultSizeBuckets)

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// RecordHTTPRequest observes one completed request.
func (m *DashboardMetrics) RecordHTTPRequest(method, path string, statusCode int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// TrackInFlight moves the active-requests gauge by delta.
func (m *DashboardMetrics) TrackInFlight(method string, delta int) {
	m.HTTPActiveRequests.WithLabelValues(method).Add(float64(delta))
}

// RecordRefresh observes one refresh cycle.
func (m *DashboardMetrics) RecordRefresh(source, status string, elapsed time.Duration) {
	m.RefreshTotal.WithLabelValues(source, status).Inc()
	m.RefreshDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordDatasetShape publishes the sizes of the last computed snapshot.
func (m *DashboardMetrics) RecordDatasetShape(source string, total, filtered, undated, unknown int) {
	m.DatasetRecords.WithLabelValues(source).Set(float64(total))
	m.FilteredRecords.WithLabelValues(source).Set(float64(filtered))
	m.UndatedRecords.WithLabelValues(source).Set(float64(undated))
	m.UnknownIdentifierLinks.WithLabelValues(source).Set(float64(unknown))
}

// RecordValidation counts one watcher validation.
func (m *DashboardMetrics) RecordValidation(valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.DatasetValidationsTotal.WithLabelValues(result).Inc()
}

// RecordUpload counts an upload attempt; size is observed only when accepted.
func (m *DashboardMetrics) RecordUpload(status string, size int64) {
	m.UploadsTotal.WithLabelValues(status).Inc()
	if status == "accepted" {
		m.UploadSizeBytes.WithLabelValues().Observe(float64(size))
	}
}

// RecordHealth sets a component's health gauge.
func (m *DashboardMetrics) RecordHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
