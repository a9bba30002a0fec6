package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wellbuddie/internal/assessment/models"
	"wellbuddie/internal/assessment/service"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/httputil"
	"wellbuddie/pkg/requestcontext"
)

// Service defines the assessment operations the handler needs.
type Service interface {
	Submit(ctx context.Context, subjectID id.SubjectID, instrument models.InstrumentID, responses []int, demo service.Demographics) (*models.AssessmentResult, error)
	History(ctx context.Context, subjectID id.SubjectID) ([]*models.AssessmentResult, error)
}

// Handler serves the instrument catalog and subject assessments.
type Handler struct {
	assessments Service
	logger      *slog.Logger
}

func New(assessments Service, logger *slog.Logger) *Handler {
	return &Handler{assessments: assessments, logger: logger}
}

// RegisterPublic mounts the catalog.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/instruments", h.HandleListInstruments)
	r.Get("/instruments/{id}", h.HandleGetInstrument)
}

// Register mounts the subject's assessment routes. The router must already
// require a session.
func (h *Handler) Register(r chi.Router) {
	r.Post("/me/assessments", h.HandleSubmit)
	r.Get("/me/assessments", h.HandleHistory)
}

func (h *Handler) HandleListInstruments(w http.ResponseWriter, _ *http.Request) {
	instruments := models.Instruments()
	out := make([]InstrumentResponse, 0, len(instruments))
	for _, in := range instruments {
		out = append(out, toInstrumentResponse(in))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"instruments": out})
}

func (h *Handler) HandleGetInstrument(w http.ResponseWriter, r *http.Request) {
	instrumentID, err := models.ParseInstrumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "instrument not found"))
		return
	}
	in, err := models.Lookup(instrumentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInstrumentResponse(in))
}

// HandleSubmit scores a completed questionnaire.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := h.subject(w, ctx, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.assessments.Submit(ctx, subjectID, req.InstrumentID(), req.Responses, req.Demographics())
	if err != nil {
		h.logFailure(ctx, "assessment submission failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "assessment submitted",
		"request_id", requestID,
		"instrument", result.Instrument,
		"bucket", result.Bucket,
	)
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subjectID, ok := h.subject(w, ctx, requestID)
	if !ok {
		return
	}

	results, err := h.assessments.History(ctx, subjectID)
	if err != nil {
		h.logFailure(ctx, "failed to load assessment history", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{Assessments: results})
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
