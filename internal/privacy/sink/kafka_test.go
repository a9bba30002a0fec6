package sink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"wellbuddie/internal/assessment/models"
	"wellbuddie/internal/privacy"
	"wellbuddie/internal/privacy/metrics"
	"wellbuddie/pkg/platform/circuit"
	"wellbuddie/pkg/platform/sentinel"
)

type fakeProducer struct {
	err     error
	records []*kgo.Record
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var out kgo.ProduceResults
	for _, r := range rs {
		f.records = append(f.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func sampleAssessment() privacy.AnonymizedAssessment {
	return privacy.AnonymizedAssessment{
		ID:         "anon-1",
		Instrument: models.InstrumentGAD7,
		Scores:     []int{1, 1, 1, 1, 1, 1, 1},
		TotalScore: 7,
		RiskLevel:  privacy.RiskModerate,
		CreatedAt:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestKafkaSink_PublishAssessment(t *testing.T) {
	p := &fakeProducer{}
	k := NewKafkaSink(p, "analytics")

	require.NoError(t, k.PublishAssessment(context.Background(), sampleAssessment()))
	require.Len(t, p.records, 1)

	r := p.records[0]
	assert.Equal(t, "analytics", r.Topic)
	assert.Equal(t, "anon-1", string(r.Key))
	assert.Equal(t, []kgo.RecordHeader{{Key: headerKind, Value: []byte("assessment")}}, r.Headers)

	var env Envelope
	require.NoError(t, json.Unmarshal(r.Value, &env))
	assert.Equal(t, "assessment", env.Kind)
	var got privacy.AnonymizedAssessment
	require.NoError(t, json.Unmarshal(env.Record, &got))
	assert.Equal(t, 7, got.TotalScore)
}

func TestKafkaSink_PublishChat(t *testing.T) {
	p := &fakeProducer{}
	k := NewKafkaSink(p, "analytics")

	require.NoError(t, k.PublishChat(context.Background(), privacy.AnonymizedChat{ID: "chat-1", MessageCount: 4}))
	require.Len(t, p.records, 1)
	assert.Equal(t, "chat-1", string(p.records[0].Key))
}

func TestKafkaSink_BreakerOpensAndSkipsBroker(t *testing.T) {
	p := &fakeProducer{err: errors.New("broker down")}
	m := metrics.New(prometheus.NewRegistry())
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	b := circuit.New("test",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	k := NewKafkaSink(p, "analytics", WithBreaker(b), WithMetrics(m))
	ctx := context.Background()

	assert.Error(t, k.PublishAssessment(ctx, sampleAssessment()))
	assert.Error(t, k.PublishAssessment(ctx, sampleAssessment()))
	assert.True(t, b.IsOpen())
	assert.Equal(t, 1.0, promtest.ToFloat64(m.SinkOpen))

	err := k.PublishAssessment(ctx, sampleAssessment())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Len(t, p.records, 2, "open breaker must not reach the broker")

	// after the cooldown a trial request goes through and successes close the breaker
	p.err = nil
	now = now.Add(time.Minute)
	require.NoError(t, k.PublishAssessment(ctx, sampleAssessment()))
	now = now.Add(time.Minute)
	require.NoError(t, k.PublishAssessment(ctx, sampleAssessment()))
	assert.False(t, b.IsOpen())
	assert.Equal(t, 0.0, promtest.ToFloat64(m.SinkOpen))
}
