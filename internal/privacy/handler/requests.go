package handler

import (
	"time"

	"wellbuddie/internal/privacy"
	dErrors "wellbuddie/pkg/domain-errors"
)

const maxBadges = 64

// ChatSessionRequest is the body of POST /me/chat-sessions. Message text is
// counted and dropped.
type ChatSessionRequest struct {
	Messages        []privacy.ChatMessage `json:"messages"`
	DurationSeconds int64                 `json:"duration_seconds"`
	Badges          []string              `json:"badges"`
	XPGained        int                   `json:"xp_gained"`
}

func (r *ChatSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch {
	case r.DurationSeconds < 0:
		return dErrors.New(dErrors.CodeValidation, "duration_seconds must not be negative")
	case r.XPGained < 0:
		return dErrors.New(dErrors.CodeValidation, "xp_gained must not be negative")
	case len(r.Badges) > maxBadges:
		return dErrors.New(dErrors.CodeValidation, "too many badges")
	}
	return nil
}

func (r *ChatSessionRequest) Session() privacy.ChatSession {
	return privacy.ChatSession{
		Messages: r.Messages,
		Duration: time.Duration(r.DurationSeconds) * time.Second,
		Badges:   r.Badges,
		XP:       r.XPGained,
	}
}
