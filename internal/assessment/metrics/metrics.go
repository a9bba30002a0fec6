package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for assessment submissions.
type Metrics struct {
	Submitted      *prometheus.CounterVec
	Rejected       *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
}

// New registers assessment metrics with reg; nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Submitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellbuddie_assessments_submitted_total",
			Help: "Completed assessments by instrument and severity bucket",
		}, []string{"instrument", "bucket"}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wellbuddie_assessments_rejected_total",
			Help: "Refused submissions by error code",
		}, []string{"code"}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellbuddie_assessment_submit_duration_seconds",
			Help:    "Time to score, store and hand off one submission",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementSubmitted(instrument, bucket string) {
	if m != nil {
		m.Submitted.WithLabelValues(instrument, bucket).Inc()
	}
}

func (m *Metrics) IncrementRejected(code string) {
	if m != nil {
		m.Rejected.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) ObserveSubmit(start time.Time) {
	if m != nil {
		m.SubmitDuration.Observe(time.Since(start).Seconds())
	}
}
