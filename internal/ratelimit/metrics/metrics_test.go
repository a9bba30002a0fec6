package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRejectedByClass(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncrementRejected("public")
	m.IncrementRejected("public")
	m.IncrementCheckError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rejected.WithLabelValues("public")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Rejected.WithLabelValues("session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckErrors))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRejected("public")
		m.IncrementCheckError()
	})
}
