package models

import (
	"time"

	id "wellbuddie/pkg/domain"
)

// AssessmentResult is a completed questionnaire. It is created once by
// Evaluate and never mutated.
type AssessmentResult struct {
	ID          id.ResultID  `json:"id"`
	SubjectID   id.SubjectID `json:"-"`
	Instrument  InstrumentID `json:"instrument"`
	Responses   []int        `json:"responses"`
	TotalScore  int          `json:"total_score"`
	MaxScore    int          `json:"max_score"`
	Bucket      Bucket       `json:"bucket"`
	Description string       `json:"description"`
	Guidance    []string     `json:"guidance"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Evaluate scores and classifies one submission for subjectID.
func Evaluate(subjectID id.SubjectID, instrumentID InstrumentID, responses []int, completedAt time.Time) (*AssessmentResult, error) {
	instrument, err := Lookup(instrumentID)
	if err != nil {
		return nil, err
	}
	set, err := NewResponseSet(instrument, responses)
	if err != nil {
		return nil, err
	}
	class, err := Classify(set.Total(), instrument.ID)
	if err != nil {
		return nil, err
	}
	return &AssessmentResult{
		ID:          id.NewResultID(),
		SubjectID:   subjectID,
		Instrument:  instrument.ID,
		Responses:   set.Values(),
		TotalScore:  set.Total(),
		MaxScore:    instrument.MaxScore,
		Bucket:      class.Bucket,
		Description: class.Description,
		Guidance:    class.Guidance,
		CompletedAt: completedAt.UTC(),
	}, nil
}
