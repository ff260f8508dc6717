package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PipelineMetrics struct {
	registry *prometheus.Registry

	importTotal    *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	importedRows   *prometheus.CounterVec
	insightTotal   *prometheus.CounterVec
	insightLatency *prometheus.HistogramVec
}

func NewPipelineMetrics() *PipelineMetrics {
	return newPipelineMetrics(prometheus.NewRegistry())
}

// NewPipelineMetricsOn registers the pipeline collectors on an existing
// registry so the API server exposes both families from one endpoint.
func NewPipelineMetricsOn(registry *prometheus.Registry) *PipelineMetrics {
	return newPipelineMetrics(registry)
}

func newPipelineMetrics(registry *prometheus.Registry) *PipelineMetrics {
	importTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mtp",
			Subsystem: "ingest",
			Name:      "imports_total",
			Help:      "Total file imports by status.",
		},
		[]string{"service", "status"},
	)
	importDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mtp",
			Subsystem: "ingest",
			Name:      "import_duration_seconds",
			Help:      "File import duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	importedRows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mtp",
			Subsystem: "ingest",
			Name:      "imported_rows_total",
			Help:      "Total rows confirmed written to the store.",
		},
		[]string{"service"},
	)
	insightTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mtp",
			Subsystem: "insight",
			Name:      "analyses_total",
			Help:      "Total insight analyses by status.",
		},
		[]string{"service", "status"},
	)
	insightLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mtp",
			Subsystem: "insight",
			Name:      "analysis_duration_seconds",
			Help:      "Insight analysis duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(importTotal, importDuration, importedRows, insightTotal, insightLatency)

	return &PipelineMetrics{
		registry:       registry,
		importTotal:    importTotal,
		importDuration: importDuration,
		importedRows:   importedRows,
		insightTotal:   insightTotal,
		insightLatency: insightLatency,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) FinishImport(service string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.importTotal.WithLabelValues(service, status).Inc()
	m.importDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if err == nil && rows > 0 {
		m.importedRows.WithLabelValues(service).Add(float64(rows))
	}
}

func (m *PipelineMetrics) FinishInsight(service string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.insightTotal.WithLabelValues(service, status).Inc()
	m.insightLatency.WithLabelValues(service, status).Observe(duration.Seconds())
}
