package metrics

import (
	"time"

	"seed-catalog/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seed_catalog"

// Metrics records reconciliation outcomes. It implements reconcile.Observer.
type Metrics struct {
	registry      *prometheus.Registry
	records       *prometheus.CounterVec
	recordSeconds *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	runSeconds    *prometheus.HistogramVec
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_records_total",
			Help:      "Staged records processed, by entity kind and outcome.",
		}, []string{"kind", "outcome"}),
		recordSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_record_duration_seconds",
			Help:      "Time spent reconciling one staged record.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation passes, split by dry run.",
		}, []string{"dry_run"}),
		runSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_run_duration_seconds",
			Help:      "Time spent on a whole reconciliation pass.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dry_run"}),
	}
	m.registry.MustRegister(
		m.records,
		m.recordSeconds,
		m.runs,
		m.runSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRecord implements reconcile.Observer.
func (m *Metrics) ObserveRecord(kind string, outcome reconcile.Outcome, elapsed time.Duration) {
	m.records.WithLabelValues(kind, string(outcome)).Inc()
	m.recordSeconds.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveRun implements reconcile.Observer.
func (m *Metrics) ObserveRun(dryRun bool, elapsed time.Duration) {
	label := "false"
	if dryRun {
		label = "true"
	}
	m.runs.WithLabelValues(label).Inc()
	m.runSeconds.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
