package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	temporalclient "go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

func TestTemporalRunner_Run(t *testing.T) {
	tc := &temporalmocks.Client{}
	wfRun := &temporalmocks.WorkflowRun{}
	r := NewTemporalRunner(tc, "onboarding-tasks", 5*time.Second, store.NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	tc.On("ExecuteWorkflow", ctx, mock.MatchedBy(func(o temporalclient.StartWorkflowOptions) bool {
		return o.TaskQueue == "onboarding-tasks" && len(o.ID) > len("onboard-")
	}), "OnboardEmployeeWorkflow", OnboardEmployeeParams{Input: janeInstruction, StepTimeout: 5 * time.Second}).Return(wfRun, nil)
	wfRun.On("GetRunID").Return("run-1")
	wfRun.On("Get", ctx, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(1).(*model.WorkflowResult)
		*out = *model.NewWorkflowResult("onboard-x", janeInstruction, time.Now())
		out.AddStep(model.StepCreateRecord, model.ServiceResult{Success: true})
		out.AddStep(model.StepAllocateAssets, model.ServiceResult{Success: true})
		out.AddStep(model.StepNotify, model.ServiceResult{Success: true})
		out.Complete(time.Now())
	}).Return(nil)

	var stages []string
	result, err := r.Run(ctx, janeInstruction, func(ev model.ProgressEvent) { stages = append(stages, ev.Stage) })
	require.NoError(t, err)
	assert.True(t, result.OverallSuccess)
	assert.Equal(t, []string{
		model.StageProcessing, model.StageNLPComplete,
		model.StageStep1, model.StageStep2, model.StageStep3,
	}, stages)
	tc.AssertExpectations(t)
	wfRun.AssertExpectations(t)
}

func TestTemporalRunner_StartErrorBecomesFailedResult(t *testing.T) {
	tc := &temporalmocks.Client{}
	s := store.NewMemoryStore()
	r := NewTemporalRunner(tc, "onboarding-tasks", 0, s, zerolog.Nop())
	ctx := context.Background()

	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("temporal down"))

	var stages []string
	result, err := r.Run(ctx, janeInstruction, func(ev model.ProgressEvent) { stages = append(stages, ev.Stage) })
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.OverallSuccess)
	assert.Equal(t, model.RunFailed, result.State)
	assert.Equal(t, "unexpected error: start onboarding workflow: temporal down", result.Error)
	assert.Empty(t, result.Steps)
	assert.Equal(t, []string{model.StageProcessing, model.StageNLPComplete}, stages)

	saved, err := s.GetRun(ctx, result.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, result.Error, saved.Error)
}

func TestTemporalRunner_GetErrorBecomesFailedResult(t *testing.T) {
	tc := &temporalmocks.Client{}
	wfRun := &temporalmocks.WorkflowRun{}
	s := store.NewMemoryStore()
	r := NewTemporalRunner(tc, "onboarding-tasks", 0, s, zerolog.Nop())
	ctx := context.Background()

	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(wfRun, nil)
	wfRun.On("Get", ctx, mock.Anything).Return(errors.New("workflow execution timed out"))

	result, err := r.Run(ctx, janeInstruction, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.OverallSuccess)
	assert.Equal(t, "unexpected error: workflow execution timed out", result.Error)
	assert.Equal(t, janeInstruction, result.Input)
	assert.True(t, len(result.WorkflowID) > len("onboard-"))

	runs, _, err := s.ListRuns(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.WorkflowID, runs[0].WorkflowID)
	wfRun.AssertExpectations(t)
}

func TestTemporalRunner_Busy(t *testing.T) {
	r := NewTemporalRunner(&temporalmocks.Client{}, "onboarding-tasks", 0, store.NewMemoryStore(), zerolog.Nop())
	r.busy.Store(true)

	result, err := r.Run(context.Background(), janeInstruction, nil)
	assert.ErrorIs(t, err, onboarding.ErrBusy)
	assert.Nil(t, result)
}
