package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wellbuddie/internal/assessment/models"
	"wellbuddie/internal/privacy"
	"wellbuddie/internal/privacy/handler/mocks"
	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/privacy-mocks.go -package=mocks Service
type PrivacyHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	subject id.SubjectID
}

func TestPrivacyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PrivacyHandlerSuite))
}

func (s *PrivacyHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterPublic(s.router)
	h.Register(s.router)
	s.subject = id.NewSubjectID()
}

func (s *PrivacyHandlerSuite) authed(req *http.Request) *http.Request {
	return testutil.WithSubject(req, s.subject.String())
}

func (s *PrivacyHandlerSuite) TestCompliance() {
	s.service.EXPECT().Compliance(gomock.Any()).Return(privacy.ComplianceReport{
		DataRetentionPolicy: "30 days",
		AnonymizationDelay:  privacy.AnonymizedAtSubmission,
		EncryptionStatus:    privacy.EncryptionEnabled,
	})

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/privacy/compliance"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "data_retention_policy", "30 days")
	testutil.AssertJSONContains(s.T(), rr, "encryption_status", "enabled")
}

func (s *PrivacyHandlerSuite) TestSummary() {
	s.Run("counts", func() {
		sum := privacy.NewSummary()
		sum.Add(models.InstrumentPHQ9, privacy.RiskModerate, 3)
		sum.ChatSessions = 2
		s.service.EXPECT().Summary(gomock.Any()).Return(sum, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/analytics/summary"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[privacy.Summary](s.T(), rr)
		s.Equal(3, resp.TotalAssessments)
		s.Equal(3, resp.ByInstrument[models.InstrumentPHQ9][privacy.RiskModerate])
		s.Equal(0, resp.ByInstrument[models.InstrumentGAD7][privacy.RiskHigh])
		s.Equal(2, resp.ChatSessions)
	})

	s.Run("store failure", func() {
		s.service.EXPECT().Summary(gomock.Any()).
			Return(privacy.Summary{}, dErrors.Wrap(errors.New("conn reset"), dErrors.CodeInternal, "failed to summarize analytics"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/analytics/summary"))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		s.NotContains(rr.Body.String(), "conn reset")
	})
}

func (s *PrivacyHandlerSuite) TestChatSession() {
	s.Run("anonymized", func() {
		s.service.EXPECT().RecordChat(gomock.Any(), s.subject, privacy.ChatSession{
			Messages: []privacy.ChatMessage{{Role: "user", Text: "hi"}},
			Duration: 90 * time.Second,
			Badges:   []string{"first-chat"},
			XP:       20,
		}).Return(&privacy.AnonymizedChat{ID: "chat-1", MessageCount: 1, DurationSeconds: 90, Badges: []string{"first-chat"}, XPGained: 20}, nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/me/chat-sessions",
			`{"messages":[{"role":"user","text":"hi"}],"duration_seconds":90,"badges":["first-chat"],"xp_gained":20}`)
		rr := testutil.DoRequest(s.router, s.authed(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "id", "chat-1")
		s.NotContains(rr.Body.String(), `"hi"`)
	})

	s.Run("negative duration", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/me/chat-sessions", `{"duration_seconds":-5}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("consent missing", func() {
		s.service.EXPECT().RecordChat(gomock.Any(), s.subject, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeMissingConsent, "consent flow has not been completed"))
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/me/chat-sessions", `{"xp_gained":1}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeMissingConsent))
	})

	s.Run("no session", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/me/chat-sessions", `{}`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}
