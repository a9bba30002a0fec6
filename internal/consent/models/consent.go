// Package models holds the consent record and the gate that decides whether a
// subject may proceed to assessments. Pure domain logic, no I/O.
package models

import (
	"time"

	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
)

// Preferences are the four consent flags.
type Preferences struct {
	DataCollection           bool `json:"data_collection"`
	AnonymizedAnalytics      bool `json:"anonymized_analytics"`
	CommunicationPreferences bool `json:"communication_preferences"`
	ThirdPartySharing        bool `json:"third_party_sharing"`
}

// Record is a subject's consent. ConsentDate is set once when the flow is
// first completed; later changes only move LastUpdated.
type Record struct {
	SubjectID id.SubjectID `json:"-"`
	Preferences
	ConsentDate time.Time `json:"consent_date"`
	LastUpdated time.Time `json:"last_updated"`
}

// Patch carries the flags a caller wants to change. Nil fields are left alone.
type Patch struct {
	DataCollection           *bool `json:"data_collection,omitempty"`
	AnonymizedAnalytics      *bool `json:"anonymized_analytics,omitempty"`
	CommunicationPreferences *bool `json:"communication_preferences,omitempty"`
	ThirdPartySharing        *bool `json:"third_party_sharing,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.DataCollection == nil && p.AnonymizedAnalytics == nil &&
		p.CommunicationPreferences == nil && p.ThirdPartySharing == nil
}

// PatchFrom turns a full set of preferences into a patch touching every flag.
func PatchFrom(p Preferences) Patch {
	return Patch{
		DataCollection:           &p.DataCollection,
		AnonymizedAnalytics:      &p.AnonymizedAnalytics,
		CommunicationPreferences: &p.CommunicationPreferences,
		ThirdPartySharing:        &p.ThirdPartySharing,
	}
}

// NewRecord creates the first record for subject.
func NewRecord(subjectID id.SubjectID, prefs Preferences, now time.Time) Record {
	now = now.UTC()
	return Record{
		SubjectID:   subjectID,
		Preferences: prefs,
		ConsentDate: now,
		LastUpdated: now,
	}
}

// CanProceed is true only when both required flags are set. Communication
// and third-party preferences never affect the outcome.
func CanProceed(r Record) bool {
	return r.DataCollection && r.AnonymizedAnalytics
}

// Require returns CodeMissingConsent when CanProceed is false.
func Require(r Record) error {
	if CanProceed(r) {
		return nil
	}
	return dErrors.New(dErrors.CodeMissingConsent,
		"data collection and anonymized analytics consent are required")
}

// Update merges patch into existing and stamps LastUpdated. existing is not
// modified and ConsentDate is carried over unchanged.
func Update(existing Record, patch Patch, now time.Time) Record {
	next := existing
	if patch.DataCollection != nil {
		next.DataCollection = *patch.DataCollection
	}
	if patch.AnonymizedAnalytics != nil {
		next.AnonymizedAnalytics = *patch.AnonymizedAnalytics
	}
	if patch.CommunicationPreferences != nil {
		next.CommunicationPreferences = *patch.CommunicationPreferences
	}
	if patch.ThirdPartySharing != nil {
		next.ThirdPartySharing = *patch.ThirdPartySharing
	}
	next.LastUpdated = now.UTC()
	return next
}

// Status is the consent view returned to clients.
type Status struct {
	Consent    *Record `json:"consent"`
	CanProceed bool    `json:"can_proceed"`
}

// HistoryEntry is one consent change read back from the audit trail.
type HistoryEntry struct {
	Action     string    `json:"action"`
	CanProceed bool      `json:"can_proceed"`
	At         time.Time `json:"at"`
}

// StatusOf builds the view. A nil record means the flow was never completed.
func StatusOf(r *Record) Status {
	if r == nil {
		return Status{}
	}
	return Status{Consent: r, CanProceed: CanProceed(*r)}
}
