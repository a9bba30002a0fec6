package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	assessmenthandler "wellbuddie/internal/assessment/handler"
	assessmentmodels "wellbuddie/internal/assessment/models"
	assessmentservice "wellbuddie/internal/assessment/service"
	assessmentstore "wellbuddie/internal/assessment/store"
	consenthandler "wellbuddie/internal/consent/handler"
	consentservice "wellbuddie/internal/consent/service"
	consentstore "wellbuddie/internal/consent/store"
	"wellbuddie/internal/platform/config"
	"wellbuddie/internal/platform/metrics"
	"wellbuddie/internal/privacy"
	privacyhandler "wellbuddie/internal/privacy/handler"
	privacyservice "wellbuddie/internal/privacy/service"
	privacystore "wellbuddie/internal/privacy/store"
	ratelimitmw "wellbuddie/internal/ratelimit/middleware"
	ratelimitmodels "wellbuddie/internal/ratelimit/models"
	ratelimitservice "wellbuddie/internal/ratelimit/service"
	"wellbuddie/internal/ratelimit/store/bucket"
	"wellbuddie/internal/session"
	sessionhandler "wellbuddie/internal/session/handler"
	"wellbuddie/pkg/platform/audit/publishers/compliance"
	auditmemory "wellbuddie/pkg/platform/audit/store/memory"
	"wellbuddie/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	router  http.Handler
	now     time.Time
	healthy error
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.build(config.RateLimitConfig{PublicPerMinute: 1000, SessionPerMinute: 1000})
}

func (s *RouterSuite) build(limits config.RateLimitConfig) {
	s.now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.healthy = nil
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	auditor := compliance.New(auditmemory.NewInMemoryStore())
	tokens := session.NewTokenService("router-test-key", time.Hour,
		session.WithClock(func() time.Time { return s.now }))

	consentSvc := consentservice.New(consentstore.NewInMemoryStore(), consentservice.WithAuditor(auditor))
	privacySvc := privacyservice.New(privacystore.NewInMemoryStore(), privacyservice.WithConsent(consentSvc))
	assessmentSvc := assessmentservice.New(assessmentstore.NewInMemoryStore(), consentSvc,
		assessmentservice.WithAnalytics(privacySvc),
		assessmentservice.WithAuditor(auditor),
	)
	limiterSvc, err := ratelimitservice.New(bucket.NewInMemoryBucketStore(),
		ratelimitservice.WithLimits(ratelimitservice.LimitsFromConfig(limits)),
		ratelimitservice.WithLogger(logger),
	)
	s.Require().NoError(err)
	limiter := ratelimitmw.New(limiterSvc, logger)

	s.router = NewRouter(Deps{
		Logger:    logger,
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Validator: session.NewMiddlewareValidator(tokens),
		Health: map[string]HealthCheck{
			"store": func(context.Context) error { return s.healthy },
		},
		Now:          func() time.Time { return s.now },
		PublicLimit:  limiter.ByClientIP(ratelimitmodels.ClassPublic),
		SessionLimit: limiter.BySubject(ratelimitmodels.ClassSession),
	},
		[]PublicModule{sessionhandler.New(tokens, auditor, logger)},
		consenthandler.New(consentSvc, logger),
		assessmenthandler.New(assessmentSvc, logger),
		privacyhandler.New(privacySvc, logger),
	)
}

func (s *RouterSuite) do(req *http.Request, token string) *http.Response {
	if token != "" {
		req = testutil.WithBearer(req, token)
	}
	rr := testutil.DoRequest(s.router, req)
	return rr.Result()
}

func (s *RouterSuite) newSession() string {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/sessions"))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	tok := testutil.UnmarshalResponse[session.Token](s.T(), rr)
	s.Require().NotEmpty(tok.AccessToken)
	return tok.AccessToken
}

func (s *RouterSuite) TestWellnessCheckFlow() {
	t := s.T()
	token := s.newSession()
	authed := func(req *http.Request) *http.Request { return testutil.WithBearer(req, token) }
	phq9 := `{"instrument":"phq9","responses":[3,3,3,2,2,2,1,1,1],"age":42,"region":"Germany"}`

	testutil.Given(t, "a fresh anonymous session", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(t, http.MethodGet, "/me/consent")))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "can_proceed", false)
	})

	testutil.When(t, "submitting before consenting", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequestWithBody(t, http.MethodPost, "/me/assessments", phq9)))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "missing_consent")
	})

	testutil.When(t, "the consent flow is completed", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequestWithBody(t, http.MethodPut, "/me/consent",
			`{"data_collection":true,"anonymized_analytics":true,"communication_preferences":false,"third_party_sharing":false}`)))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "can_proceed", true)
	})

	testutil.Then(t, "a submission is scored and recorded", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequestWithBody(t, http.MethodPost, "/me/assessments", phq9)))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		result := testutil.UnmarshalResponse[assessmentmodels.AssessmentResult](t, rr)
		require.Equal(t, 18, result.TotalScore)
		require.Equal(t, assessmentmodels.BucketSevere, result.Bucket)
		require.True(t, s.now.Equal(result.CompletedAt))

		rr = testutil.DoRequest(s.router, authed(testutil.NewRequest(t, http.MethodGet, "/me/assessments")))
		testutil.AssertStatusOK(t, rr)
		history := testutil.UnmarshalResponse[assessmenthandler.HistoryResponse](t, rr)
		require.Len(t, history.Assessments, 1)
	})

	testutil.Then(t, "the anonymized copy shows up in the aggregate", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/analytics/summary"))
		testutil.AssertStatusOK(t, rr)
		sum := testutil.UnmarshalResponse[privacy.Summary](t, rr)
		require.Equal(t, 1, sum.TotalAssessments)
		require.Equal(t, 1, sum.ByInstrument[assessmentmodels.InstrumentPHQ9][privacy.RiskHigh])
	})

	testutil.Then(t, "a chat session can be handed off", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequestWithBody(t, http.MethodPost, "/me/chat-sessions",
			`{"messages":[{"role":"user","text":"hello"}],"duration_seconds":30,"badges":["first-chat"],"xp_gained":5}`)))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})
}

func (s *RouterSuite) TestSessionRoutesRequireToken() {
	for _, path := range []string{"/me/consent", "/me/assessments"} {
		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, path), "")
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"), "not-a-jwt")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestSessionsAreIsolated() {
	first, second := s.newSession(), s.newSession()

	req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/me/consent",
		`{"data_collection":true,"anonymized_analytics":true,"communication_preferences":true,"third_party_sharing":true}`)
	s.Equal(http.StatusOK, s.do(req, first).StatusCode)

	rr := testutil.DoRequest(s.router, testutil.WithBearer(testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"), second))
	testutil.AssertJSONContains(s.T(), rr, "can_proceed", false)
}

func (s *RouterSuite) TestPublicRoutes() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/instruments"))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/consent/items"))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/privacy/compliance"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "data_retention_policy", "30 days")
}

func (s *RouterSuite) TestHealthAndMetrics() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/health"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "ok")

	s.healthy = errors.New("down")
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/health"))
	testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	testutil.AssertJSONContains(s.T(), rr, "status", "degraded")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), "wellbuddie_http_requests_total")
}

func (s *RouterSuite) TestRateLimits() {
	s.build(config.RateLimitConfig{PublicPerMinute: 2, SessionPerMinute: 1})

	token := s.newSession()
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/instruments"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/instruments"))
	testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)
	testutil.AssertJSONContains(s.T(), rr, "error", "rate_limit_exceeded")

	s.Equal(http.StatusOK, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"), token).StatusCode)
	s.Equal(http.StatusTooManyRequests, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"), token).StatusCode)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/health"))
	testutil.AssertStatusOK(s.T(), rr)
}
