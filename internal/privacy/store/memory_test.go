package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbuddie/internal/assessment/models"
	"wellbuddie/internal/privacy"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := old.Add(40 * 24 * time.Hour)

	require.NoError(t, s.SaveAssessment(ctx, privacy.AnonymizedAssessment{
		ID: "a1", Instrument: models.InstrumentPHQ9, RiskLevel: privacy.RiskLow, CreatedAt: old,
	}))
	require.NoError(t, s.SaveAssessment(ctx, privacy.AnonymizedAssessment{
		ID: "a2", Instrument: models.InstrumentPHQ9, RiskLevel: privacy.RiskHigh, CreatedAt: fresh,
	}))
	require.NoError(t, s.SaveChat(ctx, privacy.AnonymizedChat{ID: "c1", CreatedAt: old}))

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalAssessments)
	assert.Equal(t, 1, sum.ByInstrument[models.InstrumentPHQ9][privacy.RiskHigh])
	assert.Equal(t, 1, sum.ChatSessions)

	res, err := s.Purge(ctx, old.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, privacy.PurgeResult{Assessments: 1, Chats: 1}, res)

	sum, err = s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalAssessments)
	assert.Equal(t, 0, sum.ChatSessions)
}
