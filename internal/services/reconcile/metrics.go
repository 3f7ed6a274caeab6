package reconcile

import (
	"errors"

	apperrors "agency/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics receives the outcome of every sweep.
type Metrics interface {
	RecordSweep(sum Summary, err error)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordSweep(Summary, error) {}

// PrometheusMetrics exports per-job record outcomes, sweep durations and
// the time of the last clean sweep.
type PrometheusMetrics struct {
	records     *prometheus.CounterVec
	sweeps      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "reconcile",
			Name:      "records_total",
			Help:      "Records visited by reconciliation sweeps, by outcome.",
		}, []string{"job", "outcome"}),
		sweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "reconcile",
			Name:      "sweeps_total",
			Help:      "Reconciliation sweeps, by result.",
		}, []string{"job", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agency",
			Subsystem: "reconcile",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of reconciliation sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"job"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "agency",
			Subsystem: "reconcile",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last sweep that finished without error.",
		}, []string{"job"}),
	}
}

func (m *PrometheusMetrics) RecordSweep(sum Summary, err error) {
	if errors.Is(err, apperrors.ErrSweepInProgress) {
		m.sweeps.WithLabelValues(sum.Job, "skipped").Inc()
		return
	}

	m.records.WithLabelValues(sum.Job, "updated").Add(float64(sum.Updated))
	m.records.WithLabelValues(sum.Job, "unchanged").Add(float64(sum.Unchanged()))
	m.records.WithLabelValues(sum.Job, "failed").Add(float64(sum.Failed))
	m.records.WithLabelValues(sum.Job, "cancelled_skipped").Add(float64(sum.CancelledSkipped))
	m.records.WithLabelValues(sum.Job, "cleaned_up").Add(float64(sum.CleanedUp))
	m.duration.WithLabelValues(sum.Job).Observe(sum.Duration.Seconds())

	if err != nil {
		m.sweeps.WithLabelValues(sum.Job, "error").Inc()
		return
	}
	m.sweeps.WithLabelValues(sum.Job, "ok").Inc()
	m.lastSuccess.WithLabelValues(sum.Job).Set(float64(sum.StartedAt.Add(sum.Duration).Unix()))
}
