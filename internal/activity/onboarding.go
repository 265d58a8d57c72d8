package activity

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/extract"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/store"
)

// Onboarding contains the activities of the onboarding workflow. Backend
// failures come back as failed ServiceResults, not activity errors, so the
// workflow records them as step outcomes.
type Onboarding struct {
	extractor extract.Extractor
	adapter   *adapter.Adapter
	store     store.Store
}

// NewOnboarding creates a new Onboarding activity struct.
func NewOnboarding(ex extract.Extractor, a *adapter.Adapter, s store.Store) *Onboarding {
	return &Onboarding{extractor: ex, adapter: a, store: s}
}

// ExtractFields pulls the employee fields out of an instruction.
func (a *Onboarding) ExtractFields(ctx context.Context, text string) (model.ExtractedFields, error) {
	fields, err := a.extractor.Extract(ctx, text)
	if err != nil {
		return model.ExtractedFields{}, temporal.NewNonRetryableApplicationError("extract fields", "EXTRACT_ERROR", err)
	}
	return fields, nil
}

// CreateEmployeeRecord performs the create_record operation.
func (a *Onboarding) CreateEmployeeRecord(ctx context.Context, in model.CreateRecordInput) (model.ServiceResult, error) {
	return a.adapter.CreateRecord(ctx, in), nil
}

// AllocateAssets performs the allocate_assets operation.
func (a *Onboarding) AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) (model.ServiceResult, error) {
	return a.adapter.AllocateAssets(ctx, in), nil
}

// SendWelcomeNotification performs the notify operation.
func (a *Onboarding) SendWelcomeNotification(ctx context.Context, in model.NotifyInput) (model.ServiceResult, error) {
	return a.adapter.Notify(ctx, in), nil
}

// SaveRun stores a finished run in the run history.
func (a *Onboarding) SaveRun(ctx context.Context, r model.WorkflowResult) error {
	if err := a.store.SaveRun(ctx, &r); err != nil {
		return fmt.Errorf("save run %s: %w", r.WorkflowID, err)
	}
	return nil
}
