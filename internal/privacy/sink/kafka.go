// Package sink mirrors anonymized records to Kafka for downstream analytics.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"wellbuddie/internal/privacy"
	"wellbuddie/internal/privacy/metrics"
	"wellbuddie/pkg/platform/circuit"
	"wellbuddie/pkg/platform/sentinel"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Envelope is the message value. Kind is "assessment" or "chat".
type Envelope struct {
	Kind   string          `json:"kind"`
	Record json.RawMessage `json:"record"`
}

const headerKind = "wellbuddie-kind"

// KafkaSink publishes anonymized records keyed by their opaque ID. A circuit
// breaker stops publishing while the cluster is failing; calls then return
// sentinel.ErrUnavailable without touching the network.
type KafkaSink struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a KafkaSink.
type Option func(*KafkaSink)

func WithBreaker(b *circuit.Breaker) Option {
	return func(k *KafkaSink) {
		if b != nil {
			k.breaker = b
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(k *KafkaSink) { k.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(k *KafkaSink) {
		if l != nil {
			k.logger = l
		}
	}
}

func NewKafkaSink(producer Producer, topic string, opts ...Option) *KafkaSink {
	k := &KafkaSink{
		producer: producer,
		topic:    topic,
		breaker:  circuit.New("analytics-kafka"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *KafkaSink) PublishAssessment(ctx context.Context, rec privacy.AnonymizedAssessment) error {
	return k.publish(ctx, metrics.KindAssessment, rec.ID, rec)
}

func (k *KafkaSink) PublishChat(ctx context.Context, rec privacy.AnonymizedChat) error {
	return k.publish(ctx, metrics.KindChat, rec.ID, rec)
}

func (k *KafkaSink) publish(ctx context.Context, kind, key string, rec any) error {
	if !k.breaker.Allow() {
		return fmt.Errorf("%s mirror: %w", k.breaker.Name(), sentinel.ErrUnavailable)
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	value, err := json.Marshal(Envelope{Kind: kind, Record: body})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	record := &kgo.Record{
		Topic:   k.topic,
		Key:     []byte(key),
		Value:   value,
		Headers: []kgo.RecordHeader{{Key: headerKind, Value: []byte(kind)}},
	}
	if err := k.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := k.breaker.RecordFailure(); change.Opened {
			k.metrics.SetMirrorOpen(true)
			k.logger.WarnContext(ctx, "analytics mirror circuit opened", "topic", k.topic)
		}
		return fmt.Errorf("produce %s record: %w", kind, err)
	}
	if _, change := k.breaker.RecordSuccess(); change.Closed {
		k.metrics.SetMirrorOpen(false)
		k.logger.InfoContext(ctx, "analytics mirror circuit closed", "topic", k.topic)
	}
	return nil
}
