//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"wellbuddie/internal/consent/models"
	"wellbuddie/internal/consent/service"
	"wellbuddie/internal/platform/postgres"
	id "wellbuddie/pkg/domain"
	"wellbuddie/pkg/platform/sentinel"
	"wellbuddie/pkg/testutil/containers"
)

type ConsentStoreSuite struct {
	suite.Suite
	ctx    context.Context
	stores map[string]service.Store
	pg     *containers.PostgresContainer
	redis  *containers.RedisContainer
}

func TestConsentStoreSuite(t *testing.T) {
	suite.Run(t, new(ConsentStoreSuite))
}

func (s *ConsentStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	require.NoError(s.T(), postgres.Migrate(s.ctx, s.pg.DB))
	s.redis = containers.NewRedisContainer(s.T())

	s.stores = map[string]service.Store{
		"postgres": NewPostgresStore(s.pg.DB),
		"redis":    NewRedisStore(s.redis.Client),
	}
}

func (s *ConsentStoreSuite) SetupTest() {
	require.NoError(s.T(), s.pg.Truncate(s.ctx, "consent_records"))
	require.NoError(s.T(), s.redis.FlushAll(s.ctx))
}

func (s *ConsentStoreSuite) TestRoundTrip() {
	for name, st := range s.stores {
		s.Run(name, func() {
			subject := id.NewSubjectID()
			_, err := st.Get(s.ctx, subject)
			s.ErrorIs(err, sentinel.ErrNotFound)

			created := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
			r := models.NewRecord(subject, models.Preferences{DataCollection: true, AnonymizedAnalytics: true}, created)
			s.Require().NoError(st.Save(s.ctx, &r))

			updated := models.Update(r, models.Patch{ThirdPartySharing: ptr(true)}, created.Add(time.Hour))
			s.Require().NoError(st.Save(s.ctx, &updated))

			got, err := st.Get(s.ctx, subject)
			s.Require().NoError(err)
			s.True(got.ThirdPartySharing)
			s.True(got.ConsentDate.Equal(created))
			s.True(got.LastUpdated.Equal(created.Add(time.Hour)))
		})
	}
}

func (s *ConsentStoreSuite) TestPostgresTxCommitsAndRollsBack() {
	pgStore := NewPostgresStore(s.pg.DB)
	tx := NewPostgresTx(s.pg.DB, pgStore)
	subject := id.NewSubjectID()

	err := tx.RunInTx(s.ctx, subject, func(ctx context.Context, st service.Store) error {
		r := models.NewRecord(subject, models.Preferences{DataCollection: true}, time.Now())
		s.Require().NoError(st.Save(ctx, &r))
		return sentinel.ErrUnavailable
	})
	s.ErrorIs(err, sentinel.ErrUnavailable)
	_, err = pgStore.Get(s.ctx, subject)
	s.ErrorIs(err, sentinel.ErrNotFound, "rolled back")

	err = tx.RunInTx(s.ctx, subject, func(ctx context.Context, st service.Store) error {
		r := models.NewRecord(subject, models.Preferences{DataCollection: true}, time.Now())
		return st.Save(ctx, &r)
	})
	s.Require().NoError(err)
	_, err = pgStore.Get(s.ctx, subject)
	s.NoError(err)
}

func ptr[T any](v T) *T { return &v }
