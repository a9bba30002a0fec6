package privacy

import (
	"fmt"

	dErrors "wellbuddie/pkg/domain-errors"
)

// AgeRange is a coarse age band.
type AgeRange string

const (
	Age18To25 AgeRange = "18-25"
	Age26To35 AgeRange = "26-35"
	Age36To45 AgeRange = "36-45"
	Age46To55 AgeRange = "46-55"
	Age56Plus AgeRange = "56+"
)

// MinimumAge is the youngest age the service accepts.
const MinimumAge = 18

// maxPlausibleAge rejects obvious typos.
const maxPlausibleAge = 130

// AgeRangeOf buckets an exact age. Ages below 18 are outside every band and
// are rejected with CodeInvalidInput.
func AgeRangeOf(age int) (AgeRange, error) {
	switch {
	case age < MinimumAge:
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("age must be at least %d", MinimumAge))
	case age > maxPlausibleAge:
		return "", dErrors.New(dErrors.CodeInvalidInput, "age is not plausible")
	case age <= 25:
		return Age18To25, nil
	case age <= 35:
		return Age26To35, nil
	case age <= 45:
		return Age36To45, nil
	case age <= 55:
		return Age46To55, nil
	default:
		return Age56Plus, nil
	}
}
