package assessment

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Send(method, path string, body any) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers questionnaire submission and history steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &assessmentSteps{tc: tc}

	ctx.Step(`^I submit "([^"]*)" with responses "([^"]*)"$`, steps.submit)
	ctx.Step(`^I submit "([^"]*)" with responses "([^"]*)" at age (\d+) in "([^"]*)"$`, steps.submitWithDemographics)
	ctx.Step(`^the total score should be (\d+)$`, steps.totalScoreShouldBe)
	ctx.Step(`^the severity bucket should be "([^"]*)"$`, steps.bucketShouldBe)
	ctx.Step(`^I list my assessments$`, steps.listHistory)
	ctx.Step(`^my history should contain (\d+) assessments?$`, steps.historyShouldContain)
}

type assessmentSteps struct {
	tc TestContext
}

func parseResponses(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("response %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *assessmentSteps) submit(ctx context.Context, instrument, raw string) error {
	responses, err := parseResponses(raw)
	if err != nil {
		return err
	}
	return s.tc.Send(http.MethodPost, "/me/assessments", map[string]any{
		"instrument": instrument,
		"responses":  responses,
	})
}

func (s *assessmentSteps) submitWithDemographics(ctx context.Context, instrument, raw string, age int, region string) error {
	responses, err := parseResponses(raw)
	if err != nil {
		return err
	}
	return s.tc.Send(http.MethodPost, "/me/assessments", map[string]any{
		"instrument": instrument,
		"responses":  responses,
		"age":        age,
		"region":     region,
	})
}

func (s *assessmentSteps) totalScoreShouldBe(ctx context.Context, want int) error {
	got, err := s.tc.GetResponseField("total_score")
	if err != nil {
		return err
	}
	if n, ok := got.(float64); !ok || int(n) != want {
		return fmt.Errorf("expected total_score %d, got %v", want, got)
	}
	return nil
}

func (s *assessmentSteps) bucketShouldBe(ctx context.Context, want string) error {
	got, err := s.tc.GetResponseField("bucket")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected bucket %q, got %v", want, got)
	}
	return nil
}

func (s *assessmentSteps) listHistory(ctx context.Context) error {
	return s.tc.Send(http.MethodGet, "/me/assessments", nil)
}

func (s *assessmentSteps) historyShouldContain(ctx context.Context, want int) error {
	got, err := s.tc.GetResponseField("assessments")
	if err != nil {
		return err
	}
	list, ok := got.([]any)
	if !ok {
		return fmt.Errorf("assessments is not a list: %v", got)
	}
	if len(list) != want {
		return fmt.Errorf("expected %d assessments, got %d", want, len(list))
	}
	return nil
}
