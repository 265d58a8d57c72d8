package onboarding

import (
	"fmt"
	"time"

	"github.com/edvin/onboarding/internal/model"
)

// ProgressFunc receives checkpoint events while a run executes. It is called
// synchronously from the run and must not block.
type ProgressFunc func(model.ProgressEvent)

func (f ProgressFunc) emit(ev model.ProgressEvent) {
	if f == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	f(ev)
}

// ProcessingEvent marks the start of a run.
func ProcessingEvent(workflowID string) model.ProgressEvent {
	return model.ProgressEvent{
		WorkflowID: workflowID,
		Stage:      model.StageProcessing,
		Message:    "Processing onboarding request",
		Progress:   10,
	}
}

// ExtractedEvent marks the end of field extraction.
func ExtractedEvent(workflowID string, f model.ExtractedFields) model.ProgressEvent {
	msg := fmt.Sprintf("Extracted fields with %.0f%% confidence", f.Confidence*100)
	if !f.Complete() {
		msg = "Extraction incomplete: " + model.ErrMissingRequiredFields
	}
	return model.ProgressEvent{
		WorkflowID: workflowID,
		Stage:      model.StageNLPComplete,
		Message:    msg,
		Progress:   25,
	}
}

// StepEvent marks the completion of one pipeline step.
func StepEvent(workflowID string, s model.WorkflowStep) model.ProgressEvent {
	ok := s.Result.Success
	outcome := "succeeded"
	if !ok {
		outcome = "failed"
	}
	return model.ProgressEvent{
		WorkflowID: workflowID,
		Stage:      fmt.Sprintf("step_%d", s.Step),
		Message:    fmt.Sprintf("Step %d: %s on %s %s", s.Step, s.Action, s.Service, outcome),
		Progress:   25 + 25*s.Step,
		Step:       s.Step,
		Success:    &ok,
	}
}

// Replay emits the checkpoints a finished run passed through, in order.
// Runners that cannot report progress live use it once the result is in.
func Replay(r *model.WorkflowResult, progress ProgressFunc) {
	if r == nil || progress == nil {
		return
	}
	progress.emit(ProcessingEvent(r.WorkflowID))
	progress.emit(ExtractedEvent(r.WorkflowID, r.ExtractedData))
	for _, s := range r.Steps {
		progress.emit(StepEvent(r.WorkflowID, s))
	}
}
