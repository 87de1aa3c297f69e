package dashboard

import (
	"time"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/prometheus"
)

type promRecorder struct {
	m *prometheus.DashboardMetrics
}

// NewPrometheusRecorder adapts DashboardMetrics to MetricsRecorder.
func NewPrometheusRecorder(m *prometheus.DashboardMetrics) MetricsRecorder {
	if m == nil {
		return nopMetrics{}
	}
	return promRecorder{m: m}
}

func (r promRecorder) ObserveRefresh(source, status string, elapsed time.Duration) {
	r.m.RecordRefresh(source, status, elapsed)
}

func (r promRecorder) ObserveSnapshot(source string, snap *Snapshot) {
	if !snap.Ready() {
		return
	}
	r.m.RecordDatasetShape(source, snap.TotalRecords, snap.FilteredRecords, snap.UndatedCount, snap.UnknownIdentifierCount)
}

//Personal.AI order the ending
