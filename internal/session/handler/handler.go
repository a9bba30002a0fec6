package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wellbuddie/internal/session"
	"wellbuddie/pkg/platform/audit"
	"wellbuddie/pkg/platform/httputil"
	"wellbuddie/pkg/requestcontext"
)

// Issuer mints anonymous session tokens.
type Issuer interface {
	Issue() (*session.Token, error)
}

// AuditPublisher records the issuance.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Handler struct {
	issuer  Issuer
	auditor AuditPublisher
	logger  *slog.Logger
}

func New(issuer Issuer, auditor AuditPublisher, logger *slog.Logger) *Handler {
	return &Handler{issuer: issuer, auditor: auditor, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleCreate)
}

// HandleCreate issues a token for a fresh anonymous subject.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tok, err := h.issuer.Issue()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	if h.auditor != nil {
		if err := h.auditor.Emit(ctx, audit.Event{
			SubjectID: tok.SubjectID,
			Action:    string(audit.EventSessionCreated),
			Timestamp: requestcontext.Now(ctx),
			RequestID: requestID,
		}); err != nil {
			h.logger.WarnContext(ctx, "failed to audit session creation", "error", err, "request_id", requestID)
		}
	}

	h.logger.InfoContext(ctx, "session issued", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusCreated, tok)
}
