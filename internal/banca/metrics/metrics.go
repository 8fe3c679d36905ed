package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the banca module.
// Tracks lifecycle transitions and the latency of the approval path.
type Metrics struct {
	BancasCreated      prometheus.Counter
	Transitions        *prometheus.CounterVec
	ApproveDuration    prometheus.Histogram
	ClientAuthFailures *prometheus.CounterVec
}

// New creates a new Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BancasCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "lotolink_bancas_created_total",
			Help: "Total number of bancas registered",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotolink_banca_transitions_total",
			Help: "Banca lifecycle transitions by action",
		}, []string{"action"}),
		ApproveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lotolink_banca_approve_duration_seconds",
			Help:    "Duration of banca approvals including credential hashing",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		ClientAuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lotolink_banca_client_auth_failures_total",
			Help: "Integration client authentication failures by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.BancasCreated.Inc()
}

func (m *Metrics) IncrementTransition(action string) {
	m.Transitions.WithLabelValues(action).Inc()
}

// ObserveApprove records the duration of an approval.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveApprove(start time.Time) {
	m.ApproveDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementClientAuthFailure(reason string) {
	m.ClientAuthFailures.WithLabelValues(reason).Inc()
}
