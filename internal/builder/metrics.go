package builder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	constraintsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_constraints_built_total",
		Help: "Number of constraints registered on the model, by rule.",
	}, []string{"rule"})

	unconstrainedMarkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planner_unconstrained_markers",
		Help: "Number of capacity slots resolved to an explicit no-constraint marker in the last build.",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_model_build_duration_seconds",
		Help:    "Wall time spent building the constraint and objective structure.",
		Buckets: prometheus.DefBuckets,
	})
)
