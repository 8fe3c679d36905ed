package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdminCodeAttempts prometheus.Counter
	AdminCodeLockouts prometheus.Counter
	AdminCodeRejected prometheus.Counter
	SweptRecords      prometheus.Counter
	RequestsRejected  *prometheus.CounterVec
	DegradedChecks    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AdminCodeAttempts: f.NewCounter(prometheus.CounterOpts{
			Name: "lotolink_ratelimit_admin_code_attempts_total",
			Help: "Total number of admin code attempts counted by the limiter",
		}),
		AdminCodeLockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "lotolink_ratelimit_admin_code_lockouts_total",
			Help: "Total number of lockouts triggered by repeated admin code attempts",
		}),
		AdminCodeRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "lotolink_ratelimit_admin_code_rejected_total",
			Help: "Total number of admin code attempts rejected while locked",
		}),
		SweptRecords: f.NewCounter(prometheus.CounterOpts{
			Name: "lotolink_ratelimit_swept_records_total",
			Help: "Total number of stale attempt records removed by the sweeper",
		}),
		RequestsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lotolink_ratelimit_requests_rejected_total",
			Help: "Total number of requests rejected by endpoint class",
		}, []string{"class"}),
		DegradedChecks: f.NewCounter(prometheus.CounterOpts{
			Name: "lotolink_ratelimit_degraded_checks_total",
			Help: "Total number of request checks answered by the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementAttempts() {
	m.AdminCodeAttempts.Inc()
}

func (m *Metrics) IncrementLockouts() {
	m.AdminCodeLockouts.Inc()
}

func (m *Metrics) IncrementRejected() {
	m.AdminCodeRejected.Inc()
}

func (m *Metrics) AddSwept(n int) {
	m.SweptRecords.Add(float64(n))
}

func (m *Metrics) IncrementRequestRejected(class string) {
	m.RequestsRejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementDegraded() {
	m.DegradedChecks.Inc()
}
