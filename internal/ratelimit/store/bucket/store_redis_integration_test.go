//go:build integration

package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wellbuddie/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	ctx   context.Context
	redis *containers.RedisContainer
	store *RedisBucketStore
}

func TestRedisBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisBucketStoreSuite) TestAllowUntilLimit() {
	for i := range 3 {
		result, err := s.store.Allow(s.ctx, "rl:ip:10.0.0.1:public", 3, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(3-i-1, result.Remaining)
	}

	result, err := s.store.Allow(s.ctx, "rl:ip:10.0.0.1:public", 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Positive(result.RetryAfter)
}

func (s *RedisBucketStoreSuite) TestWindowExpires() {
	base := time.Now()
	s.store.now = func() time.Time { return base }
	for range 2 {
		_, err := s.store.Allow(s.ctx, "slide", 2, time.Second)
		s.Require().NoError(err)
	}

	s.store.now = func() time.Time { return base.Add(1500 * time.Millisecond) }
	result, err := s.store.Allow(s.ctx, "slide", 2, time.Second)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisBucketStoreSuite) TestIdleKeysExpire() {
	_, err := s.store.Allow(s.ctx, "idle", 5, time.Minute)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.PTTL(s.ctx, "idle").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
	s.LessOrEqual(ttl, time.Minute)
}
