package privacy

import (
	"time"

	"github.com/google/uuid"

	"wellbuddie/internal/assessment/models"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/platform/strings"
)

// IDGenerator returns a fresh opaque identifier unrelated to any subject.
type IDGenerator func() string

// AssessmentInput is a completed assessment plus optional demographics.
// SubjectID is accepted so callers can hand over what they hold; it never
// reaches the output.
type AssessmentInput struct {
	SubjectID   id.SubjectID
	Instrument  models.InstrumentID
	Responses   []int
	CompletedAt time.Time
	Age         *int
	Region      *string
}

// AnonymizedAssessment carries no subject ID, exact age, precise location or
// exact completion time. There is no way back to the input.
type AnonymizedAssessment struct {
	ID          string              `json:"id"`
	Instrument  models.InstrumentID `json:"instrument"`
	Scores      []int               `json:"scores"`
	TotalScore  int                 `json:"total_score"`
	RiskLevel   RiskLevel           `json:"risk_level"`
	CompletedOn time.Time           `json:"completed_on"`
	AgeRange    AgeRange            `json:"age_range,omitempty"`
	Region      string              `json:"region,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ChatMessage is one turn of a chat session. Text is only counted.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatSession is a finished conversation with the wellness companion.
type ChatSession struct {
	SubjectID id.SubjectID
	Messages  []ChatMessage
	Duration  time.Duration
	Badges    []string
	XP        int
}

// AnonymizedChat keeps only counts and gamification totals.
type AnonymizedChat struct {
	ID              string    `json:"id"`
	MessageCount    int       `json:"message_count"`
	DurationSeconds int64     `json:"duration_seconds"`
	Badges          []string  `json:"badges"`
	XPGained        int       `json:"xp_gained"`
	CreatedAt       time.Time `json:"created_at"`
}

// Anonymizer is safe for concurrent use.
type Anonymizer struct {
	newID   IDGenerator
	regions *RegionMapper
	now     func() time.Time
}

// AnonymizerOption configures an Anonymizer.
type AnonymizerOption func(*Anonymizer)

func WithIDGenerator(g IDGenerator) AnonymizerOption {
	return func(a *Anonymizer) {
		if g != nil {
			a.newID = g
		}
	}
}

func WithRegionMapper(m *RegionMapper) AnonymizerOption {
	return func(a *Anonymizer) {
		if m != nil {
			a.regions = m
		}
	}
}

func WithAnonymizerClock(now func() time.Time) AnonymizerOption {
	return func(a *Anonymizer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnonymizer defaults to random v4 UUIDs and the built-in region table.
func NewAnonymizer(opts ...AnonymizerOption) *Anonymizer {
	a := &Anonymizer{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.regions == nil {
		a.regions, _ = NewRegionMapper(DefaultRegionTable())
	}
	return a
}

// AnonymizeAssessment validates the responses and derives the anonymized
// record.
//
// Errors: scorer errors for bad responses, CodeInvalidInput for an unknown
// instrument or an age outside the supported bands.
func (a *Anonymizer) AnonymizeAssessment(in AssessmentInput) (AnonymizedAssessment, error) {
	instrument, err := models.Lookup(in.Instrument)
	if err != nil {
		return AnonymizedAssessment{}, err
	}
	total, err := models.Score(instrument, in.Responses)
	if err != nil {
		return AnonymizedAssessment{}, err
	}

	out := AnonymizedAssessment{
		Instrument:  instrument.ID,
		Scores:      append([]int(nil), in.Responses...),
		TotalScore:  total,
		RiskLevel:   RiskLevelOf(total, instrument.ID),
		CompletedOn: in.CompletedAt.UTC().Truncate(24 * time.Hour),
		CreatedAt:   a.today(),
	}
	if in.Age != nil {
		r, err := AgeRangeOf(*in.Age)
		if err != nil {
			return AnonymizedAssessment{}, err
		}
		out.AgeRange = r
	}
	if in.Region != nil && *in.Region != "" {
		out.Region = a.regions.Map(*in.Region)
	}
	out.ID = a.newID()
	return out, nil
}

// AnonymizeChat reduces a session to counts. Message text is never copied.
func (a *Anonymizer) AnonymizeChat(s ChatSession) (AnonymizedChat, error) {
	if s.Duration < 0 {
		return AnonymizedChat{}, dErrors.New(dErrors.CodeInvalidInput, "duration must not be negative")
	}
	if s.XP < 0 {
		return AnonymizedChat{}, dErrors.New(dErrors.CodeInvalidInput, "xp must not be negative")
	}
	return AnonymizedChat{
		ID:              a.newID(),
		MessageCount:    len(s.Messages),
		DurationSeconds: int64(s.Duration / time.Second),
		Badges:          strings.DedupeAndTrim(s.Badges),
		XPGained:        s.XP,
		CreatedAt:       a.today(),
	}, nil
}

// today is the record creation stamp. It carries no finer resolution than a
// day so it cannot be joined against subject-linked timestamps.
func (a *Anonymizer) today() time.Time {
	return a.now().UTC().Truncate(24 * time.Hour)
}
