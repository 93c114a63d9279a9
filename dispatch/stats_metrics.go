package dispatch

import "github.com/prometheus/client_golang/prometheus"

// promGauges mirrors Statistics' running totals into Prometheus
// collectors (SPEC_FULL §B), so an operator can watch a long batch run
// progress over /metrics instead of waiting for the final report.
type promGauges struct {
	assignments     prometheus.Counter
	expired         prometheus.Counter
	poolsClosed     prometheus.Counter
	approachSeconds prometheus.Histogram
	waitSeconds     prometheus.Histogram
	poolBenefit     prometheus.Histogram
}

func newPromGauges(reg prometheus.Registerer) *promGauges {
	g := &promGauges{
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_assignments_total",
			Help: "Total number of resource-agent matches completed.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_resources_expired_total",
			Help: "Total number of resources that expired unmatched.",
		}),
		poolsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_pools_closed_total",
			Help: "Total number of pool windows closed.",
		}),
		approachSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_approach_seconds",
			Help:    "Approach time (match to pickup) per assignment, in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		waitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_wait_seconds",
			Help:    "Resource wait time (available to pickup) per assignment, in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		poolBenefit: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_pool_benefit_sum",
			Help:    "Sum of per-pair benefit scores per closed pool.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
	}

	reg.MustRegister(g.assignments, g.expired, g.poolsClosed, g.approachSeconds, g.waitSeconds, g.poolBenefit)
	return g
}

// EnablePrometheus registers this Statistics' collectors against reg.
// Optional; a Simulator built without calling this still produces a full
// textual Report, unaffected (spec §6's report remains the primary
// output).
func (s *Statistics) EnablePrometheus(reg prometheus.Registerer) {
	s.prom = newPromGauges(reg)
}
