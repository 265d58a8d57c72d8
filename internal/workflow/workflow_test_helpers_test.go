package workflow

import (
	"go.temporal.io/sdk/testsuite"

	"github.com/edvin/onboarding/internal/activity"
)

// registerActivities registers the activity struct with the test workflow
// environment so that parameter and return types can be deserialized
// correctly. All activities are mocked via OnActivity, but the framework
// still needs the type information.
func registerActivities(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivity(&activity.Onboarding{})
}
