package audit

import (
	"context"
	"time"

	id "wellbuddie/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// consent changes and data hand-offs. Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. It never carries
// assessment answers or any direct identifier beyond the anonymous subject.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	SubjectID id.SubjectID
	Action    string
	Purpose   string
	Decision  string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventSessionCreated      AuditEvent = "session_created"
	EventConsentCompleted    AuditEvent = "consent_completed"
	EventConsentUpdated      AuditEvent = "consent_updated"
	EventAssessmentSubmitted AuditEvent = "assessment_submitted"
	EventAssessmentBlocked   AuditEvent = "assessment_blocked"
	EventAnalyticsHandoff    AuditEvent = "analytics_handoff"
	EventRecordsPurged       AuditEvent = "records_purged"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventConsentCompleted: CategoryCompliance,
	EventConsentUpdated:   CategoryCompliance,
	EventAnalyticsHandoff: CategoryCompliance,
	EventRecordsPurged:    CategoryCompliance,

	EventSessionCreated:      CategoryOperations,
	EventAssessmentSubmitted: CategoryOperations,
	EventAssessmentBlocked:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]Event, error)
}
