package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetAccessToken() string
	SetAccessToken(token string)
}

// RegisterSteps registers anonymous session steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sessionSteps{tc: tc}

	ctx.Step(`^I start an anonymous session$`, steps.startSession)
	ctx.Step(`^I forget my session token$`, steps.forgetToken)
	ctx.Step(`^I use the token "([^"]*)"$`, steps.useToken)
}

type sessionSteps struct {
	tc TestContext
}

func (s *sessionSteps) startSession(ctx context.Context) error {
	if err := s.tc.POST("/sessions", nil); err != nil {
		return err
	}
	if got := s.tc.GetLastResponseStatus(); got != http.StatusCreated {
		return fmt.Errorf("expected 201 from /sessions, got %d", got)
	}
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	str, ok := token.(string)
	if !ok || str == "" {
		return fmt.Errorf("access_token missing from session response")
	}
	s.tc.SetAccessToken(str)
	return nil
}

func (s *sessionSteps) forgetToken(ctx context.Context) error {
	s.tc.SetAccessToken("")
	return nil
}

func (s *sessionSteps) useToken(ctx context.Context, token string) error {
	s.tc.SetAccessToken(token)
	return nil
}
