// Package service stores anonymized records, mirrors them to analytics and
// enforces the retention window.
package service

import (
	"context"
	"log/slog"
	"time"

	consentmodels "wellbuddie/internal/consent/models"
	"wellbuddie/internal/platform/config"
	"wellbuddie/internal/privacy"
	"wellbuddie/internal/privacy/metrics"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/audit"
	"wellbuddie/pkg/platform/tracing"
	"wellbuddie/pkg/requestcontext"
)

// Store persists anonymized records.
type Store interface {
	SaveAssessment(ctx context.Context, rec privacy.AnonymizedAssessment) error
	SaveChat(ctx context.Context, rec privacy.AnonymizedChat) error
	// Purge removes records created strictly before cutoff.
	Purge(ctx context.Context, cutoff time.Time) (privacy.PurgeResult, error)
	Summary(ctx context.Context) (privacy.Summary, error)
}

// Mirror receives a copy of every stored record. Failures never fail the
// caller.
type Mirror interface {
	PublishAssessment(ctx context.Context, rec privacy.AnonymizedAssessment) error
	PublishChat(ctx context.Context, rec privacy.AnonymizedChat) error
}

// ConsentChecker answers the consent gate for a subject.
type ConsentChecker interface {
	Require(ctx context.Context, subjectID id.SubjectID) (*consentmodels.Record, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is safe for concurrent use.
type Service struct {
	store      Store
	mirror     Mirror
	consent    ConsentChecker
	anonymizer *privacy.Anonymizer
	auditor    AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cfg        config.PrivacyConfig
	sealing    bool
}

// Option configures the Service.
type Option func(*Service)

func WithMirror(m Mirror) Option {
	return func(s *Service) { s.mirror = m }
}

func WithConsent(c ConsentChecker) Option {
	return func(s *Service) { s.consent = c }
}

func WithAnonymizer(a *privacy.Anonymizer) Option {
	return func(s *Service) {
		if a != nil {
			s.anonymizer = a
		}
	}
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

// WithPolicy sets the retention policy and whether answers are sealed at
// rest; both feed the compliance report.
func WithPolicy(cfg config.PrivacyConfig, sealing bool) Option {
	return func(s *Service) {
		s.cfg = cfg
		s.sealing = sealing
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		cfg: config.PrivacyConfig{
			RetentionDays:              config.DefaultRetentionDays,
			AnonymizationDeadlineHours: config.DefaultAnonymizationDeadlineHours,
			SweepInterval:              config.DefaultSweepInterval,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.anonymizer == nil {
		s.anonymizer = privacy.NewAnonymizer()
	}
	return s
}

// RecordAssessment anonymizes a completed assessment and stores it. The
// caller decides whether the subject agreed to analytics.
func (s *Service) RecordAssessment(ctx context.Context, in privacy.AssessmentInput) (_ *privacy.AnonymizedAssessment, err error) {
	ctx, span := tracing.Start(ctx, "privacy", "RecordAssessment",
		tracing.AttrRecordKind.String(metrics.KindAssessment))
	defer func() { tracing.End(span, err) }()

	rec, err := s.anonymizer.AnonymizeAssessment(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracing.AttrRiskLevel.String(string(rec.RiskLevel)))

	if err := s.store.SaveAssessment(ctx, rec); err != nil {
		s.metrics.IncrementHandoffFailure("store")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store anonymized assessment")
	}
	s.metrics.IncrementAnonymized(metrics.KindAssessment)

	if s.mirror != nil {
		if err := s.mirror.PublishAssessment(ctx, rec); err != nil {
			s.metrics.IncrementHandoffFailure("mirror")
			s.logger.WarnContext(ctx, "analytics mirror failed",
				"kind", metrics.KindAssessment,
				"error", err,
				"request_id", requestcontext.RequestID(ctx))
		}
	}
	return &rec, nil
}

// RecordChat anonymizes a finished chat session for the subject. The subject
// must pass the consent gate.
func (s *Service) RecordChat(ctx context.Context, subjectID id.SubjectID, session privacy.ChatSession) (_ *privacy.AnonymizedChat, err error) {
	ctx, span := tracing.Start(ctx, "privacy", "RecordChat",
		tracing.AttrRecordKind.String(metrics.KindChat))
	defer func() { tracing.End(span, err) }()

	if s.consent != nil {
		if _, err := s.consent.Require(ctx, subjectID); err != nil {
			return nil, err
		}
	}

	session.SubjectID = subjectID
	rec, err := s.anonymizer.AnonymizeChat(session)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveChat(ctx, rec); err != nil {
		s.metrics.IncrementHandoffFailure("store")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store anonymized chat")
	}
	s.metrics.IncrementAnonymized(metrics.KindChat)

	if s.mirror != nil {
		if err := s.mirror.PublishChat(ctx, rec); err != nil {
			s.metrics.IncrementHandoffFailure("mirror")
			s.logger.WarnContext(ctx, "analytics mirror failed",
				"kind", metrics.KindChat,
				"error", err,
				"request_id", requestcontext.RequestID(ctx))
		}
	}
	return &rec, nil
}

// Summary returns aggregate counts of stored anonymized records.
func (s *Service) Summary(ctx context.Context) (privacy.Summary, error) {
	sum, err := s.store.Summary(ctx)
	if err != nil {
		return privacy.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to summarize analytics")
	}
	return sum, nil
}

// Compliance describes the effective privacy policy.
func (s *Service) Compliance(context.Context) privacy.ComplianceReport {
	return privacy.NewComplianceReport(s.cfg, s.sealing)
}

// Purge removes anonymized records past the retention window as of now.
func (s *Service) Purge(ctx context.Context, now time.Time) (_ privacy.PurgeResult, err error) {
	ctx, span := tracing.Start(ctx, "privacy", "Purge")
	defer func() { tracing.End(span, err) }()

	res, err := s.store.Purge(ctx, privacy.RetentionCutoff(now, s.cfg.RetentionDays))
	if err != nil {
		return res, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge expired records")
	}
	span.SetAttributes(tracing.AttrPurged.Int64(res.Total()))
	s.metrics.AddPurged(metrics.KindAssessment, res.Assessments)
	s.metrics.AddPurged(metrics.KindChat, res.Chats)

	if res.Total() > 0 && s.auditor != nil {
		if err := s.auditor.Emit(ctx, audit.Event{
			Action:    string(audit.EventRecordsPurged),
			Timestamp: now,
			Purpose:   "retention",
			Decision:  "deleted",
			Reason:    privacy.NewComplianceReport(s.cfg, s.sealing).DataRetentionPolicy,
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to audit retention purge", "error", err)
		}
	}
	return res, nil
}
