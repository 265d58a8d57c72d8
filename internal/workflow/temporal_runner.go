package workflow

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/platform"
	"github.com/edvin/onboarding/internal/store"
)

// TemporalRunner runs onboarding as a Temporal workflow and waits for the
// result. Progress is replayed from the finished result since the workflow
// does not stream checkpoints.
type TemporalRunner struct {
	tc          temporalclient.Client
	taskQueue   string
	stepTimeout time.Duration
	store       store.Store
	logger      zerolog.Logger
	now         func() time.Time
	busy        atomic.Bool
}

func NewTemporalRunner(tc temporalclient.Client, taskQueue string, stepTimeout time.Duration, s store.Store, logger zerolog.Logger) *TemporalRunner {
	return &TemporalRunner{
		tc:          tc,
		taskQueue:   taskQueue,
		stepTimeout: stepTimeout,
		store:       s,
		logger:      logger.With().Str("component", "temporal-runner").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run starts the workflow and waits for it. A workflow that cannot be
// started or does not return a result still yields a failed, saved
// WorkflowResult; the only error is ErrBusy.
func (r *TemporalRunner) Run(ctx context.Context, text string, progress onboarding.ProgressFunc) (*model.WorkflowResult, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, onboarding.ErrBusy
	}
	defer r.busy.Store(false)

	id := "onboard-" + platform.NewID()
	run, err := r.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        id,
		TaskQueue: r.taskQueue,
	}, "OnboardEmployeeWorkflow", OnboardEmployeeParams{Input: text, StepTimeout: r.stepTimeout})
	if err != nil {
		return r.fail(ctx, id, text, fmt.Errorf("start onboarding workflow: %w", err), progress), nil
	}

	var result model.WorkflowResult
	if err := run.Get(ctx, &result); err != nil {
		return r.fail(ctx, id, text, err, progress), nil
	}

	r.logger.Info().
		Str("workflow_id", id).
		Str("run_id", run.GetRunID()).
		Bool("success", result.OverallSuccess).
		Msg("onboarding workflow finished")

	onboarding.Replay(&result, progress)
	return &result, nil
}

// fail records a run the workflow could not report on itself.
func (r *TemporalRunner) fail(ctx context.Context, id, text string, cause error, progress onboarding.ProgressFunc) *model.WorkflowResult {
	logger := r.logger.With().Str("workflow_id", id).Logger()
	logger.Error().Err(cause).Msg("onboarding workflow failed")

	result := model.NewWorkflowResult(id, text, r.now())
	result.Fail("unexpected error: "+cause.Error(), r.now())

	if err := r.store.SaveRun(ctx, result); err != nil {
		logger.Warn().Err(err).Msg("failed to save run history")
	}

	onboarding.Replay(result, progress)
	return result
}
