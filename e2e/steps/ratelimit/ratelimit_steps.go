package ratelimit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Send(method, path string, body any) error
	GetLastResponseStatus() int
}

// RegisterSteps registers rate limiting steps. Scenarios using them are
// tagged @ratelimit and need a server started with low limits.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I GET "([^"]*)" (\d+) times$`, steps.getNTimes)
	ctx.Step(`^at least one response should have status (\d+)$`, steps.someResponseHadStatus)
}

type ratelimitSteps struct {
	tc       TestContext
	statuses []int
}

func (s *ratelimitSteps) getNTimes(ctx context.Context, path string, n int) error {
	s.statuses = s.statuses[:0]
	for range n {
		if err := s.tc.Send(http.MethodGet, path, nil); err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *ratelimitSteps) someResponseHadStatus(ctx context.Context, status int) error {
	for _, got := range s.statuses {
		if got == status {
			return nil
		}
	}
	return fmt.Errorf("no response with status %d in %v", status, s.statuses)
}
