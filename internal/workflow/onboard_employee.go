package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/onboarding/internal/model"
)

// DefaultStepTimeout bounds each activity when the caller sets none.
const DefaultStepTimeout = 30 * time.Second

// OnboardEmployeeParams is the input of OnboardEmployeeWorkflow.
type OnboardEmployeeParams struct {
	Input       string        `json:"input"`
	StepTimeout time.Duration `json:"step_timeout"`
}

// OnboardEmployeeWorkflow extracts the employee fields from an instruction,
// then creates the record, allocates assets and sends the welcome
// notifications. A failed create ends the run; allocation and notification
// are each attempted once after a successful create. No activity is retried.
// The run is saved to the history before the workflow returns.
func OnboardEmployeeWorkflow(ctx workflow.Context, params OnboardEmployeeParams) (*model.WorkflowResult, error) {
	timeout := params.StepTimeout
	if timeout <= 0 {
		timeout = DefaultStepTimeout
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	result := model.NewWorkflowResult(workflow.GetInfo(ctx).WorkflowExecution.ID, params.Input, now(ctx))
	runOnboarding(ctx, result)

	if err := workflow.ExecuteActivity(ctx, "SaveRun", *result).Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Warn("failed to save run history", "workflow_id", result.WorkflowID, "error", err)
	}
	return result, nil
}

func runOnboarding(ctx workflow.Context, result *model.WorkflowResult) {
	result.State = model.RunExtracting
	var fields model.ExtractedFields
	if err := workflow.ExecuteActivity(ctx, "ExtractFields", result.Input).Get(ctx, &fields); err != nil {
		result.Fail("unexpected error: extract fields: "+err.Error(), now(ctx))
		return
	}
	result.ExtractedData = fields

	if !fields.Complete() {
		result.Fail(model.ErrMissingRequiredFields, now(ctx))
		return
	}

	result.State = model.RunAwaitingCreate
	created := callService(ctx, "CreateEmployeeRecord", model.CreateRecordInput{
		Name:       fields.Name,
		Email:      fields.Email,
		Role:       fields.Role,
		Department: fields.Department,
	})
	result.AddStep(model.StepCreateRecord, created)
	if !created.Success {
		result.Fail("create employee record failed: "+created.Error, now(ctx))
		return
	}

	var employee model.EmployeeRecord
	if err := created.Decode(&employee); err != nil || employee.ID == "" {
		result.Fail("create employee record returned no id", now(ctx))
		return
	}
	result.EmployeeID = employee.ID

	result.State = model.RunAwaitingAllocate
	result.AddStep(model.StepAllocateAssets, callService(ctx, "AllocateAssets", model.AllocateAssetsInput{
		EmployeeID: employee.ID,
		Role:       fields.Role,
		Department: fields.Department,
	}))

	result.State = model.RunAwaitingNotify
	result.AddStep(model.StepNotify, callService(ctx, "SendWelcomeNotification", model.NotifyInput{
		EmployeeID: employee.ID,
		Name:       fields.Name,
		Email:      fields.Email,
		Role:       fields.Role,
	}))

	result.Complete(now(ctx))
}

// callService runs one service activity. An activity error (timeout, worker
// crash) becomes a failed ServiceResult like any backend failure.
func callService(ctx workflow.Context, activityName string, in any) model.ServiceResult {
	var res model.ServiceResult
	if err := workflow.ExecuteActivity(ctx, activityName, in).Get(ctx, &res); err != nil {
		return model.ServiceResult{Success: false, Error: err.Error()}
	}
	return res
}

func now(ctx workflow.Context) time.Time {
	return workflow.Now(ctx).UTC()
}
