// Package metrics exposes engine activity as prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "goconcolic"

// Metrics owns its registry so that several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	executions  *prometheus.CounterVec
	queries     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	constraints prometheus.Counter
	verdicts    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Number of target executions",
			},
			[]string{"function", "outcome"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solver_queries_total",
				Help:      "Number of solver queries by kind and result",
			},
			[]string{"kind", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solver_query_duration_seconds",
				Help:      "Duration of solver queries",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"kind"},
		),
		constraints: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "constraints_discovered_total",
				Help:      "Number of constraint tree nodes created",
			},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verdicts_total",
				Help:      "Number of equivalence checks by verdict",
			},
			[]string{"verdict"},
		),
	}
	m.registry.MustRegister(m.executions, m.queries, m.duration, m.constraints, m.verdicts)
	return m
}

// Hooks records engine events into m.
func (m *Metrics) Hooks() concolic.Hooks {
	return concolic.Hooks{
		OnExecution: func(_ context.Context, rec *concolic.ExecutionRecord) {
			outcome := "returned"
			if rec.Result.Panicked() {
				outcome = "panicked"
			}
			m.executions.WithLabelValues(rec.Function, outcome).Inc()
		},
		OnQuery: func(_ context.Context, ev *concolic.QueryEvent) {
			m.queries.WithLabelValues(string(ev.Kind), string(ev.Outcome)).Inc()
			m.duration.WithLabelValues(string(ev.Kind)).Observe(ev.Duration.Seconds())
		},
		OnConstraint: func(context.Context, *concolic.Constraint) {
			m.constraints.Inc()
		},
		OnVerdict: func(_ context.Context, r *concolic.CheckReport) {
			m.verdicts.WithLabelValues(string(r.Verdict)).Inc()
		},
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
