// Package metrics records batch measurement counters in a Prometheus
// registry owned by the caller.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chazu/kerf/pkg/diag"
)

// File outcome labels for FilesProcessed.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Metrics holds the collectors for one registry. A nil *Metrics records
// nothing.
type Metrics struct {
	Registry *prometheus.Registry

	FilesProcessed *prometheus.CounterVec
	PartsMeasured  prometheus.Counter
	Warnings       *prometheus.CounterVec
	CuttingLength  prometheus.Counter
	FileDuration   prometheus.Histogram
}

// New registers a fresh set of collectors in their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		FilesProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kerf_files_processed_total",
				Help: "Drawings processed, by outcome",
			},
			[]string{"status"},
		),
		PartsMeasured: f.NewCounter(prometheus.CounterOpts{
			Name: "kerf_parts_measured_total",
			Help: "Parts measured across all drawings",
		}),
		Warnings: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kerf_warnings_total",
				Help: "Diagnostics raised while measuring, by kind",
			},
			[]string{"kind"},
		),
		CuttingLength: f.NewCounter(prometheus.CounterOpts{
			Name: "kerf_cutting_length_mm_total",
			Help: "Cutting length of all measured parts in millimetres",
		}),
		FileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kerf_file_duration_seconds",
			Help:    "Time taken to measure one drawing",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

// ObserveFile records the outcome of one drawing.
func (m *Metrics) ObserveFile(status string, parts int, length float64, warnings []diag.Warning, took time.Duration) {
	if m == nil {
		return
	}
	m.FilesProcessed.WithLabelValues(status).Inc()
	m.PartsMeasured.Add(float64(parts))
	if length > 0 {
		m.CuttingLength.Add(length)
	}
	for _, w := range warnings {
		m.Warnings.WithLabelValues(w.Kind.String()).Inc()
	}
	m.FileDuration.Observe(took.Seconds())
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
