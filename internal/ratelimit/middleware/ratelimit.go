package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"wellbuddie/internal/ratelimit/metrics"
	"wellbuddie/internal/ratelimit/models"
	"wellbuddie/pkg/platform/httputil"
	"wellbuddie/pkg/requestcontext"
)

// RateLimiter is the subset of the rate limit service the middleware needs.
type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error)
	CheckSubject(ctx context.Context, subject string, class models.EndpointClass) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter    RateLimiter
	logger     *slog.Logger
	metrics    *metrics.Metrics
	disabled   bool
	trustProxy bool
}

type Option func(*Middleware)

// WithDisabled turns every limit into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

// WithTrustProxyHeaders reads the client IP from proxy headers.
func WithTrustProxyHeaders(trust bool) Option {
	return func(m *Middleware) { m.trustProxy = trust }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) { m.metrics = mt }
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// ByClientIP limits requests per client address.
func (m *Middleware) ByClientIP(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(class, func(r *http.Request) (string, bool) {
		ip := ClientIP(r, m.trustProxy)
		return ip, ip != ""
	}, m.limiter.CheckIP)
}

// BySubject limits requests per session subject. It must run after the
// session middleware; requests without a subject pass through.
func (m *Middleware) BySubject(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(class, func(r *http.Request) (string, bool) {
		subject := requestcontext.SubjectID(r.Context())
		return subject.String(), !subject.IsNil()
	}, m.limiter.CheckSubject)
}

type checkFunc func(ctx context.Context, identifier string, class models.EndpointClass) (*models.RateLimitResult, error)

func (m *Middleware) limit(class models.EndpointClass, identify func(*http.Request) (string, bool), check checkFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}
			identifier, ok := identify(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			result, err := check(ctx, identifier, class)
			if err != nil {
				// Fail open.
				m.metrics.IncrementCheckError()
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"error", err,
					"endpoint_class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the caller address without port. Proxy headers are only
// consulted when trustProxy is set.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
