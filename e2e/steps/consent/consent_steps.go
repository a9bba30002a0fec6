package consent

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Send(method, path string, body any) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers consent flow steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &consentSteps{tc: tc}

	ctx.Step(`^I complete the consent flow accepting "([^"]*)"$`, steps.completeAccepting)
	ctx.Step(`^I update my consent setting "([^"]*)" to (true|false)$`, steps.updateSetting)
	ctx.Step(`^I check my consent status$`, steps.checkStatus)
	ctx.Step(`^I should (be|not be) allowed to proceed$`, steps.shouldProceed)
	ctx.Step(`^I view my consent history$`, steps.viewHistory)
	ctx.Step(`^my consent history should list "([^"]*)"$`, steps.historyShouldList)
}

type consentSteps struct {
	tc TestContext
}

var consentFields = []string{
	"data_collection",
	"anonymized_analytics",
	"communication_preferences",
	"third_party_sharing",
}

// completeAccepting accepts the listed items and declines the rest.
func (s *consentSteps) completeAccepting(ctx context.Context, accepted string) error {
	body := make(map[string]bool, len(consentFields))
	for _, f := range consentFields {
		body[f] = false
	}
	for _, f := range strings.Split(accepted, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := body[f]; !ok {
			return fmt.Errorf("unknown consent item %q", f)
		}
		body[f] = true
	}
	return s.tc.Send(http.MethodPut, "/me/consent", body)
}

func (s *consentSteps) updateSetting(ctx context.Context, field, value string) error {
	return s.tc.Send(http.MethodPatch, "/me/consent", map[string]bool{field: value == "true"})
}

func (s *consentSteps) checkStatus(ctx context.Context) error {
	return s.tc.Send(http.MethodGet, "/me/consent", nil)
}

func (s *consentSteps) shouldProceed(ctx context.Context, verdict string) error {
	got, err := s.tc.GetResponseField("can_proceed")
	if err != nil {
		return err
	}
	want := verdict == "be"
	if got != want {
		return fmt.Errorf("expected can_proceed=%v, got %v", want, got)
	}
	return nil
}

func (s *consentSteps) viewHistory(ctx context.Context) error {
	return s.tc.Send(http.MethodGet, "/me/consent/history", nil)
}

// historyShouldList compares the actions in order, newest first.
func (s *consentSteps) historyShouldList(ctx context.Context, actions string) error {
	got, err := s.tc.GetResponseField("history")
	if err != nil {
		return err
	}
	entries, ok := got.([]any)
	if !ok {
		return fmt.Errorf("history is not a list: %v", got)
	}
	want := strings.Split(actions, ",")
	if len(entries) != len(want) {
		return fmt.Errorf("expected %d history entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		entry, _ := e.(map[string]any)
		if entry["action"] != strings.TrimSpace(want[i]) {
			return fmt.Errorf("entry %d: expected %q, got %v", i, want[i], entry["action"])
		}
	}
	return nil
}
