package handler

import (
	"strings"

	"wellbuddie/internal/assessment/models"
	"wellbuddie/internal/assessment/service"
	dErrors "wellbuddie/pkg/domain-errors"
)

// SubmitRequest is the body of POST /me/assessments. Age and region are
// optional and only used in anonymized form.
type SubmitRequest struct {
	Instrument string  `json:"instrument"`
	Responses  []int   `json:"responses"`
	Age        *int    `json:"age,omitempty"`
	Region     *string `json:"region,omitempty"`

	instrument models.InstrumentID
}

func (r *SubmitRequest) Normalize() {
	if r == nil {
		return
	}
	r.Instrument = strings.ToLower(strings.TrimSpace(r.Instrument))
	if r.Region != nil {
		trimmed := strings.TrimSpace(*r.Region)
		if trimmed == "" {
			r.Region = nil
		} else {
			r.Region = &trimmed
		}
	}
}

func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Instrument == "" {
		return dErrors.New(dErrors.CodeValidation, "instrument is required")
	}
	if r.Responses == nil {
		return dErrors.New(dErrors.CodeValidation, "responses are required")
	}
	id, err := models.ParseInstrumentID(r.Instrument)
	if err != nil {
		return err
	}
	r.instrument = id
	return nil
}

func (r *SubmitRequest) InstrumentID() models.InstrumentID { return r.instrument }

func (r *SubmitRequest) Demographics() service.Demographics {
	return service.Demographics{Age: r.Age, Region: r.Region}
}

// InstrumentResponse is one catalog entry with the shared answer scale.
type InstrumentResponse struct {
	models.Instrument
	Stem        string                `json:"stem"`
	AnswerScale []models.AnswerOption `json:"answer_scale"`
}

func toInstrumentResponse(in models.Instrument) InstrumentResponse {
	return InstrumentResponse{
		Instrument:  in,
		Stem:        models.Stem,
		AnswerScale: models.AnswerScale(),
	}
}

// HistoryResponse is the body of GET /me/assessments.
type HistoryResponse struct {
	Assessments []*models.AssessmentResult `json:"assessments"`
}
