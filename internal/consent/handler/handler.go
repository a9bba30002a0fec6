package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wellbuddie/internal/consent/models"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/httputil"
	"wellbuddie/pkg/requestcontext"
)

// Service defines the consent operations the handler needs.
type Service interface {
	Complete(ctx context.Context, subjectID id.SubjectID, prefs models.Preferences) (*models.Record, error)
	Update(ctx context.Context, subjectID id.SubjectID, patch models.Patch) (*models.Record, error)
	Status(ctx context.Context, subjectID id.SubjectID) (models.Status, error)
	History(ctx context.Context, subjectID id.SubjectID) ([]models.HistoryEntry, error)
}

// Handler serves the consent flow.
type Handler struct {
	consent Service
	logger  *slog.Logger
}

func New(consent Service, logger *slog.Logger) *Handler {
	return &Handler{consent: consent, logger: logger}
}

// RegisterPublic mounts routes that need no session.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/consent/items", h.HandleItems)
}

// Register mounts the subject's consent routes. The router must already
// require a session.
func (h *Handler) Register(r chi.Router) {
	r.Put("/me/consent", h.HandleComplete)
	r.Patch("/me/consent", h.HandleUpdate)
	r.Get("/me/consent", h.HandleStatus)
	r.Get("/me/consent/history", h.HandleHistory)
}

// HandleItems lists what each consent flag covers.
func (h *Handler) HandleItems(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": models.Items()})
}

// HandleComplete records the outcome of the consent flow.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := h.subject(w, ctx, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CompleteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.consent.Complete(ctx, subjectID, req.Preferences())
	if err != nil {
		h.logFailure(ctx, "failed to complete consent", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "consent completed",
		"request_id", requestID,
		"can_proceed", models.CanProceed(*record),
	)
	httputil.WriteJSON(w, http.StatusOK, models.StatusOf(record))
}

// HandleUpdate applies a partial preference change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := h.subject(w, ctx, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.consent.Update(ctx, subjectID, req.Patch)
	if err != nil {
		h.logFailure(ctx, "failed to update consent", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "consent updated",
		"request_id", requestID,
		"can_proceed", models.CanProceed(*record),
	)
	httputil.WriteJSON(w, http.StatusOK, models.StatusOf(record))
}

// HandleStatus returns the current record and gate outcome.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := h.subject(w, ctx, requestID)
	if !ok {
		return
	}

	status, err := h.consent.Status(ctx, subjectID)
	if err != nil {
		h.logFailure(ctx, "failed to load consent", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleHistory lists the subject's recorded consent changes.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := h.subject(w, ctx, requestID)
	if !ok {
		return
	}

	entries, err := h.consent.History(ctx, subjectID)
	if err != nil {
		h.logFailure(ctx, "failed to load consent history", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (h *Handler) subject(w http.ResponseWriter, ctx context.Context, requestID string) (id.SubjectID, bool) {
	subjectID := requestcontext.SubjectID(ctx)
	if subjectID.IsNil() {
		h.logger.ErrorContext(ctx, "subject missing from context despite session middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "session required"))
		return id.SubjectID{}, false
	}
	return subjectID, true
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
}
