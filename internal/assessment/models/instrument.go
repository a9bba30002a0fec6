// Package models holds the pure assessment rules: the instrument catalog, the
// scorer and the severity classifier. Nothing here performs I/O.
package models

import (
	"strings"

	dErrors "wellbuddie/pkg/domain-errors"
)

// InstrumentID names a questionnaire.
type InstrumentID string

const (
	InstrumentPHQ9 InstrumentID = "phq9"
	InstrumentGAD7 InstrumentID = "gad7"
)

// Answer bounds shared by every item of every instrument.
const (
	MinAnswer = 0
	MaxAnswer = 3
)

// Stem is shown before every item.
const Stem = "Over the last 2 weeks, how often have you been bothered by:"

func (i InstrumentID) String() string { return string(i) }

// IsValid reports whether i is in the catalog.
func (i InstrumentID) IsValid() bool {
	_, ok := catalog[i]
	return ok
}

// ParseInstrumentID accepts "phq9" or "gad7", case-insensitively.
func ParseInstrumentID(s string) (InstrumentID, error) {
	i := InstrumentID(strings.ToLower(strings.TrimSpace(s)))
	if !i.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown instrument: "+s)
	}
	return i, nil
}

// Instrument is one questionnaire. Items are in answer order.
type Instrument struct {
	ID       InstrumentID `json:"id"`
	Title    string       `json:"title"`
	Screens  string       `json:"screens"`
	Items    []string     `json:"items"`
	MaxScore int          `json:"max_score"`
}

// ItemCount is the required response length.
func (in Instrument) ItemCount() int { return len(in.Items) }

// AnswerOption is one point on the fixed answer scale.
type AnswerOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var answerScale = []AnswerOption{
	{Value: 0, Label: "Not at all"},
	{Value: 1, Label: "Several days"},
	{Value: 2, Label: "More than half the days"},
	{Value: 3, Label: "Nearly every day"},
}

// AnswerScale returns a copy of the answer options.
func AnswerScale() []AnswerOption {
	out := make([]AnswerOption, len(answerScale))
	copy(out, answerScale)
	return out
}

var catalog = map[InstrumentID]Instrument{
	InstrumentPHQ9: newInstrument(InstrumentPHQ9, "PHQ-9", "Depression Screening", []string{
		"Little interest or pleasure in doing things",
		"Feeling down, depressed, or hopeless",
		"Trouble falling or staying asleep, or sleeping too much",
		"Feeling tired or having little energy",
		"Poor appetite or overeating",
		"Feeling bad about yourself or that you are a failure",
		"Trouble concentrating on things",
		"Moving or speaking slowly, or being fidgety/restless",
		"Thoughts that you would be better off dead or hurting yourself",
	}),
	InstrumentGAD7: newInstrument(InstrumentGAD7, "GAD-7", "Anxiety Screening", []string{
		"Feeling nervous, anxious, or on edge",
		"Not being able to stop or control worrying",
		"Worrying too much about different things",
		"Trouble relaxing",
		"Being so restless that it is hard to sit still",
		"Becoming easily annoyed or irritable",
		"Feeling afraid, as if something awful might happen",
	}),
}

// catalogOrder fixes listing order.
var catalogOrder = []InstrumentID{InstrumentPHQ9, InstrumentGAD7}

func newInstrument(id InstrumentID, title, screens string, items []string) Instrument {
	return Instrument{
		ID:       id,
		Title:    title,
		Screens:  screens,
		Items:    items,
		MaxScore: len(items) * MaxAnswer,
	}
}

// Lookup returns a copy of the instrument.
func Lookup(id InstrumentID) (Instrument, error) {
	in, ok := catalog[id]
	if !ok {
		return Instrument{}, dErrors.New(dErrors.CodeInvalidInput, "unknown instrument: "+string(id))
	}
	return in.clone(), nil
}

// Instruments lists the catalog in a stable order.
func Instruments() []Instrument {
	out := make([]Instrument, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		out = append(out, catalog[id].clone())
	}
	return out
}

func (in Instrument) clone() Instrument {
	items := make([]string, len(in.Items))
	copy(items, in.Items)
	in.Items = items
	return in
}
