package compose

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// passMetrics are the Prometheus collectors updated after every compose pass.
type passMetrics struct {
	visited    prometheus.Counter
	skipped    prometheus.Counter
	imeSignals prometheus.Counter
	duration   prometheus.Histogram
}

func newPassMetrics() *passMetrics {
	return &passMetrics{
		visited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compose",
			Name:      "nodes_visited_total",
			Help:      "Widgets whose compose step ran (not pruned by the skip check).",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compose",
			Name:      "nodes_skipped_total",
			Help:      "Widgets whose subtree was pruned because it was clean and unmoved.",
		}),
		imeSignals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compose",
			Name:      "ime_signals_total",
			Help:      "Input-method anchor moved signals emitted.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compose",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a full compose pass.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
}

func (m *passMetrics) register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.visited, m.skipped, m.imeSignals, m.duration} {
		if err := r.Register(c); err != nil {
			return errors.Wrap(err, "registering compose metrics")
		}
	}
	return nil
}

func (m *passMetrics) observe(stats passStats, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.visited.Add(float64(stats.visited))
	m.skipped.Add(float64(stats.skipped))
	m.imeSignals.Add(float64(stats.imeSignals))
	m.duration.Observe(elapsed.Seconds())
}
