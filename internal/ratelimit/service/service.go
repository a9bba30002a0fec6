package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"wellbuddie/internal/platform/config"
	"wellbuddie/internal/ratelimit/metrics"
	"wellbuddie/internal/ratelimit/models"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/requestcontext"
)

// BucketStore counts requests in a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Service maps an identifier and endpoint class onto a bucket.
type Service struct {
	buckets BucketStore
	limits  map[models.EndpointClass]models.Limit
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Service)

func WithLimits(limits map[models.EndpointClass]models.Limit) Option {
	return func(s *Service) { s.limits = limits }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// LimitsFromConfig turns the per-minute settings into class limits.
func LimitsFromConfig(cfg config.RateLimitConfig) map[models.EndpointClass]models.Limit {
	return map[models.EndpointClass]models.Limit{
		models.ClassPublic:  {Requests: cfg.PublicPerMinute, Window: time.Minute},
		models.ClassSession: {Requests: cfg.SessionPerMinute, Window: time.Minute},
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("bucket store is required")
	}
	s := &Service{
		buckets: buckets,
		limits:  LimitsFromConfig(config.RateLimitConfig{PublicPerMinute: config.DefaultPublicPerMinute, SessionPerMinute: config.DefaultSessionPerMinute}),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckIP applies the class limit to a client address.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	return s.check(ctx, models.KeyPrefixIP, ip, models.MaskIP(ip), class)
}

// CheckSubject applies the class limit to a session subject.
func (s *Service) CheckSubject(ctx context.Context, subject string, class models.EndpointClass) (*models.RateLimitResult, error) {
	return s.check(ctx, models.KeyPrefixSubject, subject, subject, class)
}

func (s *Service) check(ctx context.Context, prefix models.KeyPrefix, identifier, logIdentifier string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, ok := s.limits[class]
	if !ok || limit.Requests <= 0 {
		// Unknown classes are denied rather than left unlimited.
		s.logger.WarnContext(ctx, "rate limit missing for class",
			"endpoint_class", class,
			"limit_type", prefix,
		)
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    requestcontext.Now(ctx),
			RetryAfter: 60,
		}, nil
	}

	result, err := s.buckets.Allow(ctx, models.Key(prefix, identifier, class), limit.Requests, limit.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}
	if !result.Allowed {
		s.metrics.IncrementRejected(string(class))
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"identifier", logIdentifier,
			"endpoint_class", class,
			"limit_type", prefix,
			"limit", limit.Requests,
			"window_seconds", int(limit.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return result, nil
}
