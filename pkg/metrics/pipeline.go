package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records metadata for reconciliation and export runs.
type PipelineMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	rows     *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "run_duration_seconds",
		Help:    "Duration of pipeline runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"run"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "run_success",
		Help: "Successful pipeline runs.",
	}, []string{"run"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "run_failure",
		Help: "Failed pipeline runs.",
	}, []string{"run"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_rows_written",
		Help: "Feed rows written, labeled by output bucket.",
	}, []string{"bucket"})
	reg.MustRegister(duration, success, failure, rows)
	return &PipelineMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		rows:     rows,
	}
}

// ObserveDuration records the duration for the named run.
func (p *PipelineMetrics) ObserveDuration(run string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(run)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named run.
func (p *PipelineMetrics) IncSuccess(run string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(run)).Inc()
}

// IncFailure increments the failure counter for the named run.
func (p *PipelineMetrics) IncFailure(run string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(run)).Inc()
}

// AddRows counts rows written to the named bucket.
func (p *PipelineMetrics) AddRows(bucket string, n int) {
	if p == nil || p.rows == nil || n <= 0 {
		return
	}
	p.rows.WithLabelValues(normalizeLabel(bucket)).Add(float64(n))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
