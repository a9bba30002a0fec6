package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics provides observability for consent changes.
type Metrics struct {
	Updates *prometheus.CounterVec
	Blocked prometheus.Counter
}

// New registers consent metrics with reg; nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Updates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellbuddie_consent_updates_total",
			Help: "Consent record writes by outcome",
		}, []string{"outcome"}),
		Blocked: f.NewCounter(prometheus.CounterOpts{
			Name: "wellbuddie_consent_gate_blocked_total",
			Help: "Requests refused because required consent was missing",
		}),
	}
}

func (m *Metrics) IncrementUpdate(outcome string) {
	if m != nil {
		m.Updates.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementBlocked() {
	if m != nil {
		m.Blocked.Inc()
	}
}
