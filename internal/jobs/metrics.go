// Package jobmetrics instruments the background worker.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	pruned      prometheus.Counter
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job collectors on registerer. A nil registerer
// shares one set registered on the Prometheus default registry.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer != nil {
		return register(promauto.With(registerer))
	}
	defaultOnce.Do(func() {
		defaultMetrics = register(promauto.With(prometheus.DefaultRegisterer))
	})
	return defaultMetrics
}

func register(f promauto.Factory) *Metrics {
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kho_jobs_total",
			Help: "Job executions by job name and status.",
		}, []string{"job", "status"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kho_jobs_failures_total",
			Help: "Failed job executions.",
		}, []string{"job"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kho_job_duration_seconds",
			Help:    "Job execution time.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"job"}),
		lastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kho_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}, []string{"job"}),
		pruned: f.NewCounter(prometheus.CounterOpts{
			Name: "kho_audit_pruned_total",
			Help: "Audit log rows removed by the retention job.",
		}),
	}
}

// Tracker times one job run.
type Tracker struct {
	m     *Metrics
	job   string
	timer *prometheus.Timer
}

// Track starts timing job. Safe on a nil Metrics.
func (m *Metrics) Track(job string) *Tracker {
	t := &Tracker{m: m, job: job}
	if m != nil {
		t.timer = prometheus.NewTimer(m.duration.WithLabelValues(job))
	}
	return t
}

// End records the outcome and hands err back.
func (t *Tracker) End(err error) error {
	if t == nil || t.m == nil {
		return err
	}
	t.timer.ObserveDuration()
	if err != nil {
		t.m.runs.WithLabelValues(t.job, "failure").Inc()
		t.m.failures.WithLabelValues(t.job).Inc()
		return err
	}
	t.m.runs.WithLabelValues(t.job, "success").Inc()
	t.m.lastSuccess.WithLabelValues(t.job).Set(float64(time.Now().Unix()))
	return nil
}

// AddPruned counts audit rows removed by the retention job.
func (m *Metrics) AddPruned(count int64) {
	if m != nil && count > 0 {
		m.pruned.Add(float64(count))
	}
}
