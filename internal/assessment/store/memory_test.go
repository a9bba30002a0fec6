package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbuddie/internal/assessment/models"
	id "wellbuddie/pkg/domain"
)

func evaluate(t *testing.T, subject id.SubjectID, responses []int, at time.Time) *models.AssessmentResult {
	t.Helper()
	r, err := models.Evaluate(subject, models.InstrumentGAD7, responses, at)
	require.NoError(t, err)
	return r
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	subject := id.NewSubjectID()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	empty, err := s.List(ctx, subject)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := evaluate(t, subject, []int{0, 0, 0, 0, 0, 0, 0}, at)
	second := evaluate(t, subject, []int{3, 3, 3, 3, 3, 3, 3}, at.Add(time.Hour))
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))
	require.NoError(t, s.Append(ctx, evaluate(t, id.NewSubjectID(), []int{1, 1, 1, 1, 1, 1, 1}, at)))

	got, err := s.List(ctx, subject)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, models.BucketSevere, got[1].Bucket)

	got[0].Responses[0] = 3
	again, err := s.List(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, 0, again[0].Responses[0], "stored history must not be mutable through List")
}
