package models

import (
	"fmt"

	dErrors "wellbuddie/pkg/domain-errors"
)

// Score sums responses for the given instrument.
//
// Errors:
//   - CodeInvalidResponseSet when len(responses) differs from the item count
//   - CodeOutOfRangeResponse naming the first item outside [0,3]
//
// Length is checked before values.
func Score(instrument Instrument, responses []int) (int, error) {
	if len(responses) != instrument.ItemCount() {
		return 0, dErrors.New(dErrors.CodeInvalidResponseSet,
			fmt.Sprintf("%s expects %d responses, got %d", instrument.ID, instrument.ItemCount(), len(responses)))
	}
	total := 0
	for i, v := range responses {
		if v < MinAnswer || v > MaxAnswer {
			return 0, dErrors.New(dErrors.CodeOutOfRangeResponse,
				fmt.Sprintf("response %d is %d, must be between %d and %d", i+1, v, MinAnswer, MaxAnswer))
		}
		total += v
	}
	return total, nil
}

// ResponseSet is a complete, validated set of answers. It cannot be changed
// after construction.
type ResponseSet struct {
	instrument InstrumentID
	values     []int
	total      int
}

// NewResponseSet validates responses against the instrument and keeps a copy.
func NewResponseSet(instrument Instrument, responses []int) (ResponseSet, error) {
	total, err := Score(instrument, responses)
	if err != nil {
		return ResponseSet{}, err
	}
	values := make([]int, len(responses))
	copy(values, responses)
	return ResponseSet{instrument: instrument.ID, values: values, total: total}, nil
}

func (r ResponseSet) Instrument() InstrumentID { return r.instrument }
func (r ResponseSet) Total() int               { return r.total }
func (r ResponseSet) Len() int                 { return len(r.values) }

// Values returns a copy of the answers.
func (r ResponseSet) Values() []int {
	out := make([]int, len(r.values))
	copy(out, r.values)
	return out
}
