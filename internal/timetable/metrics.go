package timetable

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors the engine updates over the
// course of one run.
type Metrics struct {
	CandidateGroupsGenerated prometheus.Counter
	AC3Revisions             prometheus.Counter
	SearchNodesExplored      prometheus.Counter
	DiagnosticsByKind        *prometheus.CounterVec
	RunDuration              prometheus.Histogram
}

// NewMetrics registers and returns a Metrics set. Callers that don't want
// to expose metrics can pass a throwaway registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CandidateGroupsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "candidate_groups_generated_total",
			Help:      "Total candidate Groups produced by the generator across all subjects.",
		}),
		AC3Revisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "ac3_revisions_total",
			Help:      "Total domain revisions performed by the AC-3 propagator.",
		}),
		SearchNodesExplored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "search_nodes_explored_total",
			Help:      "Total backtracking search nodes explored.",
		}),
		DiagnosticsByKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted, by kind.",
		}, []string{"kind"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "timetable",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a full engine run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.CandidateGroupsGenerated, m.AC3Revisions, m.SearchNodesExplored, m.DiagnosticsByKind, m.RunDuration)
	}
	return m
}

// metricsDiagnostics wraps a Diagnostics sink so every emitted record also
// increments DiagnosticsByKind, without the rest of the engine needing to
// know metrics exist.
type metricsDiagnostics struct {
	inner   Diagnostics
	metrics *Metrics
}

// WithMetrics returns a Diagnostics that forwards to inner and records
// per-kind counts on metrics. inner may be nil.
func WithMetrics(inner Diagnostics, metrics *Metrics) Diagnostics {
	return &metricsDiagnostics{inner: inner, metrics: metrics}
}

func (d *metricsDiagnostics) Emit(ctx context.Context, rec DiagnosticRecord) {
	if d.metrics != nil {
		d.metrics.DiagnosticsByKind.WithLabelValues(string(rec.Kind)).Inc()
	}
	if d.inner != nil {
		d.inner.Emit(ctx, rec)
	}
}
