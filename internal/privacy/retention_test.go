package privacy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	cutoff := RetentionCutoff(now, 30)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), cutoff)

	tests := []struct {
		name      string
		createdAt time.Time
		expired   bool
	}{
		{"same instant", now, false},
		{"exactly 30 days", now.Add(-30 * day), false},
		{"one nanosecond past 30 days", now.Add(-30*day - time.Nanosecond), true},
		{"45 days", now.Add(-45 * day), true},
		{"future timestamp", now.Add(10 * day), false},
		{"far future timestamp", now.Add(31 * day), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.createdAt.Before(cutoff))
		})
	}
}

func TestRetentionCutoff_DayStampedRecords(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, created.Before(RetentionCutoff(created.Add(30*day), 30)))
	assert.True(t, created.Before(RetentionCutoff(created.Add(30*day+time.Second), 30)))
}
