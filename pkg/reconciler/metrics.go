package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fiber_renders_total",
		Help: "Render attempts by lane and outcome (completed, yielded, aborted, discarded).",
	}, []string{"lane", "outcome"})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fiber_render_duration_seconds",
		Help:    "Wall time from the start of a render to its commit.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"lane"})

	commitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fiber_commits_total",
		Help: "Finished trees committed to a host.",
	})

	hostMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fiber_host_mutations_total",
		Help: "Host mutations applied at commit by kind (placement, update, deletion).",
	}, []string{"kind"})

	passiveFlushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fiber_passive_effect_flushes_total",
		Help: "Passive effect flushes that ran at least one effect.",
	})
)
