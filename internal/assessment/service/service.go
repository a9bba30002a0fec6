// Package service records assessment submissions behind the consent gate.
package service

import (
	"context"
	"log/slog"
	"time"

	"wellbuddie/internal/assessment/metrics"
	"wellbuddie/internal/assessment/models"
	consentmodels "wellbuddie/internal/consent/models"
	"wellbuddie/internal/privacy"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/audit"
	"wellbuddie/pkg/platform/tracing"
	"wellbuddie/pkg/requestcontext"
)

// Store keeps each subject's assessment history in submission order.
type Store interface {
	Append(ctx context.Context, result *models.AssessmentResult) error
	// List returns the subject's results oldest first; empty when none.
	List(ctx context.Context, subjectID id.SubjectID) ([]*models.AssessmentResult, error)
}

// ConsentGate refuses subjects whose consent does not allow assessments.
type ConsentGate interface {
	Require(ctx context.Context, subjectID id.SubjectID) (*consentmodels.Record, error)
}

// Analytics receives anonymized copies of completed assessments.
type Analytics interface {
	RecordAssessment(ctx context.Context, in privacy.AssessmentInput) (*privacy.AnonymizedAssessment, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Demographics are optional and only ever leave the service in coarse form.
type Demographics struct {
	Age    *int
	Region *string
}

type Service struct {
	store     Store
	consent   ConsentGate
	analytics Analytics
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

func WithAnalytics(a Analytics) Option {
	return func(s *Service) { s.analytics = a }
}

func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) { s.auditor = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(store Store, consent ConsentGate, opts ...Option) *Service {
	s := &Service{
		store:   store,
		consent: consent,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit scores and classifies responses for the subject and appends the
// result to their history.
//
// Order: consent gate, demographics, scoring, persistence, analytics. The
// analytics hand-off only runs when the subject agreed to anonymized
// analytics, and its failure never fails the submission.
func (s *Service) Submit(ctx context.Context, subjectID id.SubjectID, instrument models.InstrumentID, responses []int, demo Demographics) (_ *models.AssessmentResult, err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "assessment", "Submit",
		tracing.AttrInstrument.String(string(instrument)))
	defer func() {
		tracing.End(span, err)
		if err != nil {
			s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
		}
	}()

	consent, err := s.consent.Require(ctx, subjectID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeMissingConsent) {
			s.emit(ctx, subjectID, audit.EventAssessmentBlocked, "blocked", "consent required")
		}
		return nil, err
	}

	if demo.Age != nil {
		if _, err := privacy.AgeRangeOf(*demo.Age); err != nil {
			return nil, err
		}
	}

	result, err := models.Evaluate(subjectID, instrument, responses, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracing.AttrBucket.String(string(result.Bucket)))

	if err := s.store.Append(ctx, result); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save assessment")
	}
	s.metrics.IncrementSubmitted(string(result.Instrument), string(result.Bucket))
	s.metrics.ObserveSubmit(start)
	s.emit(ctx, subjectID, audit.EventAssessmentSubmitted, "recorded", string(result.Instrument))

	if s.analytics != nil && consent.AnonymizedAnalytics {
		s.handOff(ctx, result, demo)
	}
	return result, nil
}

// History returns the subject's results, oldest first.
func (s *Service) History(ctx context.Context, subjectID id.SubjectID) (_ []*models.AssessmentResult, err error) {
	ctx, span := tracing.Start(ctx, "assessment", "History")
	defer func() { tracing.End(span, err) }()

	results, err := s.store.List(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assessment history")
	}
	if results == nil {
		results = []*models.AssessmentResult{}
	}
	return results, nil
}

func (s *Service) handOff(ctx context.Context, result *models.AssessmentResult, demo Demographics) {
	_, err := s.analytics.RecordAssessment(ctx, privacy.AssessmentInput{
		SubjectID:   result.SubjectID,
		Instrument:  result.Instrument,
		Responses:   result.Responses,
		CompletedAt: result.CompletedAt,
		Age:         demo.Age,
		Region:      demo.Region,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "analytics hand-off failed",
			"request_id", requestcontext.RequestID(ctx),
			"instrument", result.Instrument,
			"error", err,
		)
	}
}

// emit writes an operations event. Failures are logged only.
func (s *Service) emit(ctx context.Context, subjectID id.SubjectID, action audit.AuditEvent, decision, reason string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		SubjectID: subjectID,
		Action:    string(action),
		Purpose:   "assessment",
		Decision:  decision,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to audit assessment event",
			"action", action,
			"error", err,
		)
	}
}
