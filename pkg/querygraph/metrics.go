package querygraph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records overlay builds. A nil *Metrics is valid and records nothing.
type Metrics struct {
	builds       prometheus.Counter
	failures     prometheus.Counter
	virtualNodes prometheus.Histogram
	virtualEdges prometheus.Histogram
	duration     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "query_overlay",
			Name:      "builds_total",
			Help:      "Number of query overlays built.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "query_overlay",
			Name:      "build_failures_total",
			Help:      "Number of query overlay builds that returned an error.",
		}),
		virtualNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navigatorx",
			Subsystem: "query_overlay",
			Name:      "virtual_nodes",
			Help:      "Virtual nodes per query overlay.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		virtualEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navigatorx",
			Subsystem: "query_overlay",
			Name:      "virtual_edges",
			Help:      "Virtual edges per query overlay.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navigatorx",
			Subsystem: "query_overlay",
			Name:      "build_duration_seconds",
			Help:      "Time spent building one query overlay.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.builds, m.failures, m.virtualNodes, m.virtualEdges, m.duration)
	}
	return m
}

func (m *Metrics) observeBuild(overlay *QueryOverlay, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.builds.Inc()
	m.virtualNodes.Observe(float64(overlay.GetNumVirtualNodes()))
	m.virtualEdges.Observe(float64(overlay.GetNumVirtualEdges()))
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
