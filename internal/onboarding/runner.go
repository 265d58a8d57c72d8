// Package onboarding runs the onboarding pipeline: extract fields from an
// instruction, create the employee record, allocate assets and send the
// welcome notifications.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/extract"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/platform"
	"github.com/edvin/onboarding/internal/store"
)

// ErrBusy is returned when a run is requested while another is in flight.
// No WorkflowResult is produced for the rejected request.
var ErrBusy = errors.New("onboarding run already in progress")

// Onboarder executes one onboarding run to a terminal WorkflowResult.
type Onboarder interface {
	Run(ctx context.Context, text string, progress ProgressFunc) (*model.WorkflowResult, error)
}

// Services performs the three backend operations. *adapter.Adapter
// satisfies it.
type Services interface {
	CreateRecord(ctx context.Context, in model.CreateRecordInput) model.ServiceResult
	AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) model.ServiceResult
	Notify(ctx context.Context, in model.NotifyInput) model.ServiceResult
}

// Runner executes runs in-process, one at a time.
type Runner struct {
	extractor extract.Extractor
	services  Services
	store     store.Store
	logger    zerolog.Logger
	now       func() time.Time
	busy      atomic.Bool
}

func NewRunner(ex extract.Extractor, svc Services, s store.Store, logger zerolog.Logger) *Runner {
	return &Runner{
		extractor: ex,
		services:  svc,
		store:     s,
		logger:    logger.With().Str("component", "workflow-runner").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run executes the pipeline for one instruction. Failures are reported in
// the returned result; the only error is ErrBusy.
func (r *Runner) Run(ctx context.Context, text string, progress ProgressFunc) (*model.WorkflowResult, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.busy.Store(false)

	result := model.NewWorkflowResult(platform.NewID(), text, r.now())
	logger := r.logger.With().Str("workflow_id", result.WorkflowID).Logger()

	func() {
		defer func() {
			if p := recover(); p != nil {
				logger.Error().Interface("panic", p).Msg("onboarding run panicked")
				result.Fail(fmt.Sprintf("unexpected error: %v", p), r.now())
			}
		}()
		r.execute(ctx, result, progress, logger)
	}()

	if err := r.store.SaveRun(ctx, result); err != nil {
		logger.Warn().Err(err).Msg("failed to save run history")
	}

	logger.Info().
		Str("state", string(result.State)).
		Bool("success", result.OverallSuccess).
		Int("steps", len(result.Steps)).
		Str("employee_id", result.EmployeeID).
		Msg("onboarding run finished")
	return result, nil
}

func (r *Runner) execute(ctx context.Context, result *model.WorkflowResult, progress ProgressFunc, logger zerolog.Logger) {
	id := result.WorkflowID
	progress.emit(ProcessingEvent(id))

	result.State = model.RunExtracting
	fields, err := r.extractor.Extract(ctx, result.Input)
	if err != nil {
		result.Fail(fmt.Sprintf("unexpected error: extract fields: %v", err), r.now())
		return
	}
	result.ExtractedData = fields
	progress.emit(ExtractedEvent(id, fields))

	if !fields.Complete() {
		logger.Warn().Bool("has_name", fields.Name != "").Bool("has_email", fields.Email != "").Msg("extraction missing required fields")
		result.Fail(model.ErrMissingRequiredFields, r.now())
		return
	}

	result.State = model.RunAwaitingCreate
	created := r.services.CreateRecord(ctx, model.CreateRecordInput{
		Name:       fields.Name,
		Email:      fields.Email,
		Role:       fields.Role,
		Department: fields.Department,
	})
	r.record(result, model.StepCreateRecord, created, progress, logger)
	if !created.Success {
		result.Fail("create employee record failed: "+created.Error, r.now())
		return
	}

	var employee model.EmployeeRecord
	if err := created.Decode(&employee); err != nil || employee.ID == "" {
		result.Fail("create employee record returned no id", r.now())
		return
	}
	result.EmployeeID = employee.ID

	result.State = model.RunAwaitingAllocate
	allocated := r.services.AllocateAssets(ctx, model.AllocateAssetsInput{
		EmployeeID: employee.ID,
		Role:       fields.Role,
		Department: fields.Department,
	})
	r.record(result, model.StepAllocateAssets, allocated, progress, logger)

	result.State = model.RunAwaitingNotify
	notified := r.services.Notify(ctx, model.NotifyInput{
		EmployeeID: employee.ID,
		Name:       fields.Name,
		Email:      fields.Email,
		Role:       fields.Role,
	})
	r.record(result, model.StepNotify, notified, progress, logger)

	result.Complete(r.now())
}

func (r *Runner) record(result *model.WorkflowResult, step int, res model.ServiceResult, progress ProgressFunc, logger zerolog.Logger) {
	result.AddStep(step, res)
	ws := result.Steps[len(result.Steps)-1]

	ev := logger.Info()
	if !res.Success {
		ev = logger.Warn().Str("error", res.Error)
	}
	ev.Int("step", step).Str("service", ws.Service).Str("action", ws.Action).Bool("success", res.Success).Msg("workflow step")

	progress.emit(StepEvent(result.WorkflowID, ws))
}
