package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/extract"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

const janeInstruction = "onboard employee Jane Doe, jane.doe@example.com as developer in engineering"

func newTestTools() *tools {
	s := store.NewMemoryStore()
	b := adapter.NewSimulated(s, catalog.Default())
	ex := extract.NewRegex()
	runner := onboarding.NewRunner(ex, adapter.New(b, zerolog.Nop()), s, zerolog.Nop())
	svc := onboarding.NewService(runner, ex, s, nil, zerolog.Nop())
	return &tools{svc: svc, backend: b, store: s}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestServerTools_Names(t *testing.T) {
	var names []string
	for _, st := range newTestTools().serverTools() {
		names = append(names, st.Tool.Name)
	}
	assert.Equal(t, []string{"onboard_employee", "extract_fields", "list_employees", "list_assets", "health_check"}, names)
}

func TestOnboardEmployee(t *testing.T) {
	tl := newTestTools()

	res, err := tl.onboardEmployee(context.Background(), call(map[string]any{"text": janeInstruction}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var result model.WorkflowResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &result))
	assert.True(t, result.OverallSuccess)
	assert.Equal(t, "EMP001", result.EmployeeID)

	res, err = tl.listEmployees(context.Background(), call(nil))
	require.NoError(t, err)
	var employees []model.EmployeeRecord
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &employees))
	assert.Len(t, employees, 1)

	res, err = tl.listAssets(context.Background(), call(map[string]any{"employee_id": "EMP001"}))
	require.NoError(t, err)
	var assets struct {
		Total     int     `json:"total"`
		TotalCost float64 `json:"total_cost"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &assets))
	assert.Equal(t, 5, assets.Total)
	assert.InDelta(t, 1325.0, assets.TotalCost, 0.001)
}

func TestOnboardEmployee_MissingText(t *testing.T) {
	res, err := newTestTools().onboardEmployee(context.Background(), call(map[string]any{"text": " "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "missing required parameter: text")
}

func TestExtractFields(t *testing.T) {
	res, err := newTestTools().extractFields(context.Background(), call(map[string]any{"text": janeInstruction}))
	require.NoError(t, err)

	var fields model.ExtractedFields
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &fields))
	assert.Equal(t, "jane.doe@example.com", fields.Email)
	assert.Equal(t, "developer", fields.Role)
}

func TestHealthCheck(t *testing.T) {
	res, err := newTestTools().healthCheck(context.Background(), call(nil))
	require.NoError(t, err)

	var report model.HealthReport
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &report))
	assert.Equal(t, model.HealthHealthy, report.Status)
}
