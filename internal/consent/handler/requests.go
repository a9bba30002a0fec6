package handler

import (
	"wellbuddie/internal/consent/models"
	dErrors "wellbuddie/pkg/domain-errors"
)

// CompleteRequest is the body of PUT /me/consent. Every flag must be present
// so a client cannot complete the flow by omission.
type CompleteRequest struct {
	DataCollection           *bool `json:"data_collection"`
	AnonymizedAnalytics      *bool `json:"anonymized_analytics"`
	CommunicationPreferences *bool `json:"communication_preferences"`
	ThirdPartySharing        *bool `json:"third_party_sharing"`
}

func (r *CompleteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch {
	case r.DataCollection == nil:
		return dErrors.New(dErrors.CodeValidation, "data_collection is required")
	case r.AnonymizedAnalytics == nil:
		return dErrors.New(dErrors.CodeValidation, "anonymized_analytics is required")
	case r.CommunicationPreferences == nil:
		return dErrors.New(dErrors.CodeValidation, "communication_preferences is required")
	case r.ThirdPartySharing == nil:
		return dErrors.New(dErrors.CodeValidation, "third_party_sharing is required")
	}
	return nil
}

// Preferences returns the validated flags.
func (r *CompleteRequest) Preferences() models.Preferences {
	return models.Preferences{
		DataCollection:           *r.DataCollection,
		AnonymizedAnalytics:      *r.AnonymizedAnalytics,
		CommunicationPreferences: *r.CommunicationPreferences,
		ThirdPartySharing:        *r.ThirdPartySharing,
	}
}

// UpdateRequest is the body of PATCH /me/consent.
type UpdateRequest struct {
	models.Patch
}

func (r *UpdateRequest) Validate() error {
	if r == nil || r.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "at least one consent preference is required")
	}
	return nil
}
