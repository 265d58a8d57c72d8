package onboarding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/onboarding/internal/model"
)

func TestStepEvent(t *testing.T) {
	ev := StepEvent("wf-1", model.NewStep(model.StepAllocateAssets, model.ServiceResult{Success: false}))

	assert.Equal(t, model.StageStep2, ev.Stage)
	assert.Equal(t, 75, ev.Progress)
	assert.Equal(t, 2, ev.Step)
	require.NotNil(t, ev.Success)
	assert.False(t, *ev.Success)
	assert.Equal(t, "Step 2: allocate_assets on asset-allocation failed", ev.Message)
}

func TestExtractedEvent(t *testing.T) {
	f := model.NewExtractedFields()
	f.Name, f.Email, f.Confidence = "Jane Doe", "jane@example.com", 0.7

	assert.Equal(t, "Extracted fields with 70% confidence", ExtractedEvent("wf-1", f).Message)
	assert.Contains(t, ExtractedEvent("wf-1", model.NewExtractedFields()).Message, model.ErrMissingRequiredFields)
}

func TestReplay(t *testing.T) {
	r := model.NewWorkflowResult("wf-9", "text", time.Now())
	r.AddStep(model.StepCreateRecord, model.ServiceResult{Success: true})
	r.AddStep(model.StepAllocateAssets, model.ServiceResult{Success: true})
	r.AddStep(model.StepNotify, model.ServiceResult{Success: true})

	progress, events := collect()
	Replay(r, progress)

	got := events()
	assert.Equal(t, []string{
		model.StageProcessing, model.StageNLPComplete,
		model.StageStep1, model.StageStep2, model.StageStep3,
	}, stages(got))
	for _, ev := range got {
		assert.Equal(t, "wf-9", ev.WorkflowID)
		assert.False(t, ev.Time.IsZero())
	}

	assert.NotPanics(t, func() { Replay(nil, progress) })
	assert.NotPanics(t, func() { Replay(r, nil) })
}
