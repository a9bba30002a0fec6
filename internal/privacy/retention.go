package privacy

import "time"

const day = 24 * time.Hour

// RetentionCutoff is the oldest creation time still inside a retention window
// of retentionDays at now. Records created strictly before it are expired;
// future-dated records never are.
func RetentionCutoff(now time.Time, retentionDays int) time.Time {
	return now.Add(-time.Duration(retentionDays) * day)
}
