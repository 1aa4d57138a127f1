package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "backoffice"

// ImportMetrics records bulk spreadsheet import activity.
type ImportMetrics struct {
	duration *prometheus.HistogramVec
	imports  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	inflight prometheus.Gauge
}

// NewImportMetrics registers the import metrics on reg. A nil registerer
// yields a no-op recorder.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_duration_seconds",
		Help:      "Wall time of bulk imports, from parse to last row.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"entity"})
	imports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imports_total",
		Help:      "Bulk imports by entity and final status.",
	}, []string{"entity", "status"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Imported spreadsheet rows by entity and outcome.",
	}, []string{"entity", "outcome"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "imports_in_flight",
		Help:      "Imports currently holding a slot.",
	})
	reg.MustRegister(duration, imports, rows, inflight)
	return &ImportMetrics{
		duration: duration,
		imports:  imports,
		rows:     rows,
		inflight: inflight,
	}
}

// ObserveImport records one finished import.
func (m *ImportMetrics) ObserveImport(entity, status string, elapsed time.Duration) {
	if m == nil || m.imports == nil {
		return
	}
	entity = normalizeLabel(entity)
	m.imports.WithLabelValues(entity, normalizeLabel(status)).Inc()
	m.duration.WithLabelValues(entity).Observe(elapsed.Seconds())
}

// AddRows counts n rows with the given outcome.
func (m *ImportMetrics) AddRows(entity, outcome string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(entity), normalizeLabel(outcome)).Add(float64(n))
}

// Acquired and Released track slot usage.
func (m *ImportMetrics) Acquired() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Inc()
}

func (m *ImportMetrics) Released() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Dec()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
