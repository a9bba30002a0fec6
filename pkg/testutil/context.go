package testutil

import (
	"context"
	"net/http"
	"time"

	id "wellbuddie/pkg/domain"
	"wellbuddie/pkg/requestcontext"
)

// WithSubject adds a subject ID to the request context, as the session
// middleware would. Invalid IDs are ignored.
func WithSubject(req *http.Request, subjectID string) *http.Request {
	parsed, err := id.ParseSubjectID(subjectID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithSubjectID(req.Context(), parsed))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
