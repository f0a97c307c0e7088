// Package metrics exports runtime receipts as Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xdao.co/certlife/ledger"
)

// Ledger implements ledger.Observer.
type Ledger struct {
	gatherer     prometheus.Gatherer
	instructions *prometheus.CounterVec
	rejections   prometheus.Counter
	invocation   *prometheus.HistogramVec
}

// New registers the ledger series with registry. A nil registry gets a
// private one.
func New(registry *prometheus.Registry) *Ledger {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)
	return &Ledger{
		gatherer: registry,
		instructions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certlife_instructions_total",
			Help: "Executed transactions by program and result code",
		}, []string{"program", "code"}),
		rejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "certlife_rejected_transactions_total",
			Help: "Transactions rejected before program execution",
		}),
		invocation: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certlife_invocation_seconds",
			Help:    "Program invocation time",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"program"}),
	}
}

func (m *Ledger) Observe(r ledger.Receipt, elapsed time.Duration) {
	program := r.Program.String()
	m.instructions.WithLabelValues(program, r.Code).Inc()
	m.invocation.WithLabelValues(program).Observe(elapsed.Seconds())
}

// Reject counts a transaction that never reached a program.
func (m *Ledger) Reject() {
	m.rejections.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Ledger) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
