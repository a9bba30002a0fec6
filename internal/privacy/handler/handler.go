package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wellbuddie/internal/privacy"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/httputil"
	"wellbuddie/pkg/requestcontext"
)

// Service defines the privacy operations the handler needs.
type Service interface {
	RecordChat(ctx context.Context, subjectID id.SubjectID, session privacy.ChatSession) (*privacy.AnonymizedChat, error)
	Summary(ctx context.Context) (privacy.Summary, error)
	Compliance(ctx context.Context) privacy.ComplianceReport
}

// Handler serves compliance, aggregate analytics and chat hand-off.
type Handler struct {
	privacy Service
	logger  *slog.Logger
}

func New(privacy Service, logger *slog.Logger) *Handler {
	return &Handler{privacy: privacy, logger: logger}
}

// RegisterPublic mounts routes that need no session.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/privacy/compliance", h.HandleCompliance)
	r.Get("/analytics/summary", h.HandleSummary)
}

// Register mounts session routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/me/chat-sessions", h.HandleChatSession)
}

func (h *Handler) HandleCompliance(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.privacy.Compliance(r.Context()))
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sum, err := h.privacy.Summary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to summarize analytics",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sum)
}

// HandleChatSession stores an anonymized summary of a finished chat.
func (h *Handler) HandleChatSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID := requestcontext.SubjectID(ctx)
	if subjectID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "session required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ChatSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.privacy.RecordChat(ctx, subjectID, req.Session())
	if err != nil {
		if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "failed to record chat session", "request_id", requestID, "error", err)
		} else {
			h.logger.WarnContext(ctx, "chat session rejected", "request_id", requestID, "error", err)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "chat session anonymized",
		"request_id", requestID,
		"message_count", rec.MessageCount,
	)
	httputil.WriteJSON(w, http.StatusCreated, rec)
}
