package models

import (
	"fmt"
	"math"

	dErrors "wellbuddie/pkg/domain-errors"
)

// Bucket is a severity band.
type Bucket string

const (
	BucketMinimal  Bucket = "Minimal"
	BucketMild     Bucket = "Mild"
	BucketModerate Bucket = "Moderate"
	BucketSevere   Bucket = "Severe"
)

func (b Bucket) String() string { return string(b) }

// threshold is an inclusive upper bound. Thresholds are checked lowest first
// and the first match wins.
type threshold struct {
	upTo   int
	bucket Bucket
}

// Both instruments happen to share their cut points.
var standardThresholds = []threshold{
	{upTo: 4, bucket: BucketMinimal},
	{upTo: 9, bucket: BucketMild},
	{upTo: 14, bucket: BucketModerate},
	{upTo: math.MaxInt, bucket: BucketSevere},
}

var thresholds = map[InstrumentID][]threshold{
	InstrumentPHQ9: standardThresholds,
	InstrumentGAD7: standardThresholds,
}

// BucketOf maps a non-negative total onto the instrument's bands without
// checking the instrument maximum. Classify is the checked entry point.
func BucketOf(total int, id InstrumentID) Bucket {
	for _, t := range thresholds[id] {
		if total <= t.upTo {
			return t.bucket
		}
	}
	return BucketSevere
}

// Classification is the bucket with its fixed wording.
type Classification struct {
	Bucket      Bucket   `json:"bucket"`
	Description string   `json:"description"`
	Guidance    []string `json:"guidance"`
}

// Classify maps a total score to its bucket and guidance.
//
// Errors: CodeScoreOutOfRange when total is outside [0, MaxScore]; composing
// Score and Classify never produces it. CodeInvalidInput for an unknown
// instrument.
func Classify(total int, id InstrumentID) (Classification, error) {
	in, ok := catalog[id]
	if !ok {
		return Classification{}, dErrors.New(dErrors.CodeInvalidInput, "unknown instrument: "+string(id))
	}
	if total < 0 || total > in.MaxScore {
		return Classification{}, dErrors.New(dErrors.CodeScoreOutOfRange,
			fmt.Sprintf("%s score %d outside [0,%d]", id, total, in.MaxScore))
	}

	bucket := BucketOf(total, id)
	entry := guidanceTable[guidanceKey{instrument: id, bucket: bucket}]
	guidance := make([]string, len(entry.guidance))
	copy(guidance, entry.guidance)

	return Classification{
		Bucket:      bucket,
		Description: entry.description,
		Guidance:    guidance,
	}, nil
}
