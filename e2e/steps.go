package e2e

import (
	"github.com/cucumber/godog"

	"wellbuddie/e2e/steps/assessment"
	"wellbuddie/e2e/steps/common"
	"wellbuddie/e2e/steps/consent"
	"wellbuddie/e2e/steps/ratelimit"
	"wellbuddie/e2e/steps/session"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	session.RegisterSteps(ctx, tc)
	consent.RegisterSteps(ctx, tc)
	assessment.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
