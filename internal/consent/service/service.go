package service

import (
	"context"
	"errors"
	"log/slog"

	"wellbuddie/internal/consent/metrics"
	"wellbuddie/internal/consent/models"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/audit"
	"wellbuddie/pkg/platform/sentinel"
	"wellbuddie/pkg/platform/tracing"
	"wellbuddie/pkg/requestcontext"
)

// Store persists one consent record per subject.
type Store interface {
	// Get returns sentinel.ErrNotFound when the subject has no record.
	Get(ctx context.Context, subjectID id.SubjectID) (*models.Record, error)
	// Save inserts or replaces the subject's record.
	Save(ctx context.Context, record *models.Record) error
}

// AuditPublisher writes compliance events. The event is written before the
// record inside the same transaction; Emit failing aborts the change.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// AuditTrail reads back what the AuditPublisher wrote, newest first.
type AuditTrail interface {
	List(ctx context.Context, subjectID id.SubjectID) ([]audit.Event, error)
}

const (
	auditPurpose       = "consent"
	decisionCanProceed = "can_proceed"
)

// Service persists consent and answers gate questions for other modules.
type Service struct {
	store   Store
	tx      StoreTx
	auditor AuditPublisher
	trail   AuditTrail
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithTx overrides the default sharded in-memory transaction.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) { s.auditor = a }
}

func WithAuditTrail(t AuditTrail) Option {
	return func(s *Service) { s.trail = t }
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

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewShardedTx(store)
	}
	return s
}

// Complete records the outcome of the consent flow. The first call creates
// the record; later calls replace the flags but keep the original consent date.
func (s *Service) Complete(ctx context.Context, subjectID id.SubjectID, prefs models.Preferences) (_ *models.Record, err error) {
	ctx, span := tracing.Start(ctx, "consent", "Complete")
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	var saved *models.Record
	created := false

	err = s.tx.RunInTx(ctx, subjectID, func(ctx context.Context, store Store) error {
		existing, err := store.Get(ctx, subjectID)
		var next models.Record
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			next = models.NewRecord(subjectID, prefs, now)
			created = true
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent")
		default:
			next = models.Update(*existing, models.PatchFrom(prefs), now)
		}

		if err := s.emit(ctx, subjectID, audit.EventConsentCompleted, next); err != nil {
			return err
		}
		if err := store.Save(ctx, &next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
		}
		saved = &next
		return nil
	})
	if err != nil {
		s.metrics.IncrementUpdate(metrics.OutcomeFailed)
		return nil, err
	}

	if created {
		s.metrics.IncrementUpdate(metrics.OutcomeCreated)
	} else {
		s.metrics.IncrementUpdate(metrics.OutcomeUpdated)
	}
	return saved, nil
}

// Update applies a patch to an existing record.
//
// Errors: CodeValidation for an empty patch, CodeNotFound when the consent
// flow was never completed.
func (s *Service) Update(ctx context.Context, subjectID id.SubjectID, patch models.Patch) (_ *models.Record, err error) {
	ctx, span := tracing.Start(ctx, "consent", "Update")
	defer func() { tracing.End(span, err) }()

	if patch.IsEmpty() {
		s.metrics.IncrementUpdate(metrics.OutcomeRejected)
		return nil, dErrors.New(dErrors.CodeValidation, "at least one consent preference is required")
	}

	now := requestcontext.Now(ctx)
	var saved *models.Record
	err = s.tx.RunInTx(ctx, subjectID, func(ctx context.Context, store Store) error {
		existing, err := store.Get(ctx, subjectID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "consent flow has not been completed")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent")
		}

		next := models.Update(*existing, patch, now)
		if err := s.emit(ctx, subjectID, audit.EventConsentUpdated, next); err != nil {
			return err
		}
		if err := store.Save(ctx, &next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
		}
		saved = &next
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.IncrementUpdate(metrics.OutcomeRejected)
		} else {
			s.metrics.IncrementUpdate(metrics.OutcomeFailed)
		}
		return nil, err
	}
	s.metrics.IncrementUpdate(metrics.OutcomeUpdated)
	return saved, nil
}

// Get returns the subject's record or CodeNotFound.
func (s *Service) Get(ctx context.Context, subjectID id.SubjectID) (*models.Record, error) {
	record, err := s.store.Get(ctx, subjectID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "consent flow has not been completed")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent")
	}
	return record, nil
}

// Status reports the record and the gate outcome. A subject without a record
// gets an empty status rather than an error.
func (s *Service) Status(ctx context.Context, subjectID id.SubjectID) (models.Status, error) {
	record, err := s.store.Get(ctx, subjectID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.StatusOf(nil), nil
	}
	if err != nil {
		return models.Status{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent")
	}
	return models.StatusOf(record), nil
}

// History lists the subject's consent changes, newest first. Without an audit
// trail the history is empty.
func (s *Service) History(ctx context.Context, subjectID id.SubjectID) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	if s.trail == nil {
		return entries, nil
	}
	events, err := s.trail.List(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent history")
	}
	for _, e := range events {
		if e.Purpose != auditPurpose {
			continue
		}
		entries = append(entries, models.HistoryEntry{
			Action:     e.Action,
			CanProceed: e.Decision == decisionCanProceed,
			At:         e.Timestamp,
		})
	}
	return entries, nil
}

// Require returns the record when the gate passes and CodeMissingConsent
// otherwise, including when no record exists.
func (s *Service) Require(ctx context.Context, subjectID id.SubjectID) (*models.Record, error) {
	record, err := s.store.Get(ctx, subjectID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementBlocked()
		return nil, dErrors.New(dErrors.CodeMissingConsent, "consent flow has not been completed")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent")
	}
	if err := models.Require(*record); err != nil {
		s.metrics.IncrementBlocked()
		return nil, err
	}
	return record, nil
}

func (s *Service) emit(ctx context.Context, subjectID id.SubjectID, action audit.AuditEvent, r models.Record) error {
	if s.auditor == nil {
		return nil
	}
	decision := "blocked"
	if models.CanProceed(r) {
		decision = decisionCanProceed
	}
	err := s.auditor.Emit(ctx, audit.Event{
		SubjectID: subjectID,
		Action:    string(action),
		Purpose:   auditPurpose,
		Decision:  decision,
		Timestamp: r.LastUpdated,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "consent change rolled back: audit failed",
			"action", string(action),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record consent audit")
	}
	return nil
}
