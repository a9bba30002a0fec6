package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbuddie/internal/consent/models"
	id "wellbuddie/pkg/domain"
	"wellbuddie/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	subject := id.NewSubjectID()

	_, err := s.Get(ctx, subject)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	r := models.NewRecord(subject, models.Preferences{DataCollection: true}, time.Now())
	require.NoError(t, s.Save(ctx, &r))

	got, err := s.Get(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, r, *got)

	got.DataCollection = false
	again, err := s.Get(ctx, subject)
	require.NoError(t, err)
	assert.True(t, again.DataCollection, "callers get a copy")
}
