package model

import "time"

// Pipeline step metadata. Steps always appear in this order.
const (
	StepCreateRecord   = 1
	StepAllocateAssets = 2
	StepNotify         = 3

	ServiceRecords       = "employee-records"
	ServiceAssets        = "asset-allocation"
	ServiceNotifications = "notifications"

	ActionCreateEmployee = "create_employee"
	ActionAllocateAssets = "allocate_assets"
	ActionSendWelcome    = "send_welcome"
)

// ErrMissingRequiredFields is the WorkflowResult error when extraction did
// not produce both a name and an email.
const ErrMissingRequiredFields = "missing required fields"

type WorkflowStep struct {
	Step    int           `json:"step"`
	Service string        `json:"service"`
	Action  string        `json:"action"`
	Result  ServiceResult `json:"result"`
}

type WorkflowResult struct {
	WorkflowID     string          `json:"workflow_id"`
	Input          string          `json:"input"`
	ExtractedData  ExtractedFields `json:"extracted_data"`
	Steps          []WorkflowStep  `json:"steps"`
	OverallSuccess bool            `json:"overall_success"`
	EmployeeID     string          `json:"employee_id,omitempty"`
	State          RunState        `json:"state"`
	StartedAt      time.Time       `json:"started_at"`
	CompletionTime time.Time       `json:"completion_time"`
	Error          string          `json:"error,omitempty"`
}

// NewWorkflowResult starts an empty result for one run.
func NewWorkflowResult(id, input string, now time.Time) *WorkflowResult {
	return &WorkflowResult{
		WorkflowID:    id,
		Input:         input,
		ExtractedData: NewExtractedFields(),
		Steps:         []WorkflowStep{},
		State:         RunIdle,
		StartedAt:     now,
	}
}

// NewStep builds the log entry for one pipeline step.
func NewStep(step int, res ServiceResult) WorkflowStep {
	ws := WorkflowStep{Step: step, Result: res}
	switch step {
	case StepCreateRecord:
		ws.Service, ws.Action = ServiceRecords, ActionCreateEmployee
	case StepAllocateAssets:
		ws.Service, ws.Action = ServiceAssets, ActionAllocateAssets
	case StepNotify:
		ws.Service, ws.Action = ServiceNotifications, ActionSendWelcome
	}
	return ws
}

// AddStep appends the outcome of step to the log.
func (r *WorkflowResult) AddStep(step int, res ServiceResult) {
	r.Steps = append(r.Steps, NewStep(step, res))
}

// Fail ends the run in the failed state.
func (r *WorkflowResult) Fail(msg string, now time.Time) {
	r.State = RunFailed
	r.OverallSuccess = false
	r.Error = msg
	r.CompletionTime = now
}

// Complete ends the run after the last step was attempted. The run is
// successful only when every step succeeded.
func (r *WorkflowResult) Complete(now time.Time) {
	r.State = RunCompleted
	r.OverallSuccess = r.AllStepsSucceeded()
	r.CompletionTime = now
}

// AllStepsSucceeded reports whether every recorded step succeeded. A result
// with no steps did not succeed.
func (r *WorkflowResult) AllStepsSucceeded() bool {
	if len(r.Steps) == 0 {
		return false
	}
	for _, s := range r.Steps {
		if !s.Result.Success {
			return false
		}
	}
	return true
}
