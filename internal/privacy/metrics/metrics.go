package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record kinds.
const (
	KindAssessment = "assessment"
	KindChat       = "chat"
)

// Metrics tracks anonymized records and analytics hand-off health.
type Metrics struct {
	Anonymized      *prometheus.CounterVec
	HandoffFailures *prometheus.CounterVec
	Purged          *prometheus.CounterVec
	SinkOpen        prometheus.Gauge
}

// New registers privacy metrics with reg; nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Anonymized: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellbuddie_anonymized_records_total",
			Help: "Anonymized records stored, by kind",
		}, []string{"kind"}),
		HandoffFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellbuddie_analytics_handoff_failures_total",
			Help: "Analytics hand-offs that failed, by destination",
		}, []string{"destination"}),
		Purged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellbuddie_retention_purged_records_total",
			Help: "Anonymized records removed after the retention window, by kind",
		}, []string{"kind"}),
		SinkOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "wellbuddie_analytics_mirror_circuit_open",
			Help: "1 while the analytics mirror circuit breaker is open",
		}),
	}
}

func (m *Metrics) IncrementAnonymized(kind string) {
	if m != nil {
		m.Anonymized.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementHandoffFailure(destination string) {
	if m != nil {
		m.HandoffFailures.WithLabelValues(destination).Inc()
	}
}

func (m *Metrics) AddPurged(kind string, n int64) {
	if m != nil && n > 0 {
		m.Purged.WithLabelValues(kind).Add(float64(n))
	}
}

// SetMirrorOpen records the breaker position.
func (m *Metrics) SetMirrorOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.SinkOpen.Set(1)
	} else {
		m.SinkOpen.Set(0)
	}
}
