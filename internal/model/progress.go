package model

import "time"

// Progress checkpoints emitted during a run, in order.
const (
	StageProcessing  = "processing"
	StageNLPComplete = "nlp_complete"
	StageStep1       = "step_1"
	StageStep2       = "step_2"
	StageStep3       = "step_3"
)

// ProgressEvent reports that a run reached a checkpoint.
type ProgressEvent struct {
	WorkflowID string    `json:"workflow_id"`
	Stage      string    `json:"stage"`
	Message    string    `json:"message"`
	Progress   int       `json:"progress"`
	Step       int       `json:"step,omitempty"`
	Success    *bool     `json:"success,omitempty"`
	Time       time.Time `json:"time"`
}
