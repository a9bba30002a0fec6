package privacy

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wellbuddie/internal/assessment/models"
)

func TestAnonymizerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every adult age lands in exactly one band", prop.ForAll(
		func(age int) bool {
			r, err := AgeRangeOf(age)
			if err != nil {
				return false
			}
			switch r {
			case Age18To25, Age26To35, Age36To45, Age46To55, Age56Plus:
				return true
			}
			return false
		},
		gen.IntRange(MinimumAge, 120),
	))

	properties.Property("risk level agrees with severity bucket", prop.ForAll(
		func(total int) bool {
			level := RiskLevelOf(total, models.InstrumentPHQ9)
			bucket := models.BucketOf(total, models.InstrumentPHQ9)
			switch bucket {
			case models.BucketMinimal:
				return level == RiskLow
			case models.BucketSevere:
				return level == RiskHigh
			default:
				return level == RiskModerate
			}
		},
		gen.IntRange(0, 27),
	))

	pinned := time.Date(2026, 5, 5, 12, 0, 0, 0, time.UTC)
	fixed := NewAnonymizer(WithAnonymizerClock(func() time.Time { return pinned }))
	locations := make([]string, 0, len(DefaultRegionTable().Regions)+1)
	for _, countries := range DefaultRegionTable().Regions {
		locations = append(locations, countries...)
	}
	locations = append(locations, "Atlantis")

	properties.Property("identical input differs only in ID", prop.ForAll(
		func(responses []int, age int, location string, offset int64) bool {
			in := AssessmentInput{
				Instrument:  models.InstrumentGAD7,
				Responses:   responses,
				CompletedAt: pinned.Add(-time.Duration(offset) * time.Second),
				Age:         &age,
				Region:      &location,
			}
			x, errX := fixed.AnonymizeAssessment(in)
			y, errY := fixed.AnonymizeAssessment(in)
			if errX != nil || errY != nil || x.ID == "" || x.ID == y.ID {
				return false
			}
			y.ID = x.ID
			return reflect.DeepEqual(x, y)
		},
		gen.SliceOfN(7, gen.IntRange(models.MinAnswer, models.MaxAnswer)),
		gen.IntRange(MinimumAge, 120),
		gen.OneConstOf(toInterfaces(locations)...),
		gen.Int64Range(0, 90*24*60*60),
	))

	properties.Property("region output is always a configured label", prop.ForAll(
		func(location string) bool {
			m, _ := NewRegionMapper(DefaultRegionTable())
			label := m.Map(location)
			if label == DefaultRegionLabel {
				return true
			}
			_, ok := DefaultRegionTable().Regions[label]
			return ok
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
