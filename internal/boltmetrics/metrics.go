// Package boltmetrics wires github.com/prometheus/client_golang
// counters and histograms into internal/boltconn's primitives:
// request latency, summary kind, and defunct counts. Grounded on the
// teacher's direct client_golang dependency (used the same way
// elsewhere in its metric-store HTTP surface): each Metrics value built
// by New owns its own small set of collectors, which MustRegister
// registers on a Registerer the embedding application supplies.
package boltmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the hook internal/boltconn.Conn calls after each
// summary-producing request and whenever it transitions to DEFUNCT or
// FAILED_SERVER_REPORTED. Until SetMetrics installs one (or after
// SetMetrics(nil)), Conn uses a no-op recorder and no metrics are
// recorded, matching the optional-by-default Logger.
type Recorder interface {
	ObserveRequest(kind string, dur time.Duration)
	IncSummary(kind string)
	IncDefunct()
	IncFailure(severity string)
}

// Metrics is the concrete Recorder, backed by client_golang
// collectors. Construct one with New and register it with
// prometheus.Register (or MustRegister) before wiring it into a Conn.
type Metrics struct {
	requestLatency *prometheus.HistogramVec
	summaries      *prometheus.CounterVec
	defunctTotal   prometheus.Counter
	failureTotal   *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of a Bolt request/summary round trip.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Count of terminal summaries by kind (success, failure, ignored).",
		}, []string{"kind"}),
		defunctTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "defunct_total",
			Help:      "Count of connections marked DEFUNCT.",
		}),
		failureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_failures_total",
			Help:      "Count of server FAILURE/IGNORED replies by severity.",
		}, []string{"severity"}),
	}
}

// MustRegister registers every collector with r (typically
// prometheus.DefaultRegisterer, or a test-local registry).
func (m *Metrics) MustRegister(r prometheus.Registerer) {
	r.MustRegister(m.requestLatency, m.summaries, m.defunctTotal, m.failureTotal)
}

func (m *Metrics) ObserveRequest(kind string, dur time.Duration) {
	m.requestLatency.WithLabelValues(kind).Observe(dur.Seconds())
}

func (m *Metrics) IncSummary(kind string) { m.summaries.WithLabelValues(kind).Inc() }
func (m *Metrics) IncDefunct()            { m.defunctTotal.Inc() }
func (m *Metrics) IncFailure(severity string) {
	m.failureTotal.WithLabelValues(severity).Inc()
}
