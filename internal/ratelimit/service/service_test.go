package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"wellbuddie/internal/platform/config"
	"wellbuddie/internal/ratelimit/metrics"
	"wellbuddie/internal/ratelimit/models"
	"wellbuddie/internal/ratelimit/store/bucket"
	dErrors "wellbuddie/pkg/domain-errors"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.metrics = metrics.New(prometheus.NewRegistry())
	svc, err := New(bucket.NewInMemoryBucketStore(),
		WithLimits(LimitsFromConfig(config.RateLimitConfig{PublicPerMinute: 2, SessionPerMinute: 3})),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) TestNewRequiresStore() {
	_, err := New(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestCheckIP() {
	for range 2 {
		result, err := s.service.CheckIP(s.ctx, "192.0.2.10", models.ClassPublic)
		s.Require().NoError(err)
		s.True(result.Allowed)
	}

	result, err := s.service.CheckIP(s.ctx, "192.0.2.10", models.ClassPublic)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejected.WithLabelValues("public")))

	s.Run("other address has its own bucket", func() {
		result, err := s.service.CheckIP(s.ctx, "192.0.2.11", models.ClassPublic)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *ServiceSuite) TestCheckSubjectUsesSessionLimit() {
	var last *models.RateLimitResult
	for range 3 {
		var err error
		last, err = s.service.CheckSubject(s.ctx, "subject-1", models.ClassSession)
		s.Require().NoError(err)
	}
	s.True(last.Allowed)
	s.Equal(3, last.Limit)

	result, err := s.service.CheckSubject(s.ctx, "subject-1", models.ClassSession)
	s.Require().NoError(err)
	s.False(result.Allowed)
}

func (s *ServiceSuite) TestIPAndSubjectBucketsDoNotCollide() {
	for range 2 {
		_, err := s.service.CheckIP(s.ctx, "x", models.ClassSession)
		s.Require().NoError(err)
	}
	result, err := s.service.CheckSubject(s.ctx, "x", models.ClassSession)
	s.Require().NoError(err)
	s.Equal(2, result.Remaining)
}

func (s *ServiceSuite) TestUnknownClassDenied() {
	result, err := s.service.CheckIP(s.ctx, "192.0.2.10", models.EndpointClass("admin"))
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(60, result.RetryAfter)
}

func (s *ServiceSuite) TestStoreFailureIsInternal() {
	svc, err := New(failingStore{})
	s.Require().NoError(err)

	_, err = svc.CheckIP(s.ctx, "192.0.2.10", models.ClassPublic)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
