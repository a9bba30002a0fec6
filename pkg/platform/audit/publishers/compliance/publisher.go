// Package compliance provides a fail-closed audit publisher for regulatory events.
//
// Events are written synchronously; if the write fails an error is returned and
// the calling operation MUST fail.
//
// Use for: consent_completed, consent_updated, analytics_handoff, records_purged
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "wellbuddie/pkg/domain"
	audit "wellbuddie/pkg/platform/audit"
)

// Publisher emits compliance events with fail-closed semantics.
type Publisher struct {
	store    audit.Store
	logger   *slog.Logger
	now      func() time.Time
	failures prometheus.Counter
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithRegisterer exports the persistence failure counter on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Publisher) {
		p.failures = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "wellbuddie_compliance_audit_failures_total",
			Help: "Compliance audit events that could not be persisted",
		})
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a compliance publisher.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes an event to the audit store. Returns an error if
// persistence fails.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if err := p.store.Append(ctx, event); err != nil {
		if p.failures != nil {
			p.failures.Inc()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: compliance audit failed",
				"action", event.Action,
				"subject_id", event.SubjectID,
				"error", err,
			)
		}
		return fmt.Errorf("compliance audit persistence failed: %w", err)
	}
	return nil
}

// List returns the audit trail of one subject, newest first.
func (p *Publisher) List(ctx context.Context, subjectID id.SubjectID) ([]audit.Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}
