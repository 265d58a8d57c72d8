package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

const listLimit = 200

type tools struct {
	svc     *onboarding.Service
	backend adapter.Backend
	store   store.Store
}

func (t *tools) serverTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("onboard_employee",
				mcp.WithDescription("Onboard a new employee from a plain-language instruction, e.g. "+
					`"onboard Jane Doe, jane.doe@example.com as developer in engineering". `+
					"Returns the full workflow result with every step."),
				mcp.WithString("text", mcp.Required(), mcp.Description("The onboarding instruction")),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(false),
			),
			Handler: t.onboardEmployee,
		},
		{
			Tool: mcp.NewTool("extract_fields",
				mcp.WithDescription("Extract name, email, role and department from an instruction without onboarding anyone."),
				mcp.WithString("text", mcp.Required(), mcp.Description("The instruction to analyse")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.extractFields,
		},
		{
			Tool: mcp.NewTool("list_employees",
				mcp.WithDescription("List employee records created so far."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.listEmployees,
		},
		{
			Tool: mcp.NewTool("list_assets",
				mcp.WithDescription("List allocated assets, optionally for one employee."),
				mcp.WithString("employee_id", mcp.Description("Only list assets assigned to this employee")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.listAssets,
		},
		{
			Tool: mcp.NewTool("health_check",
				mcp.WithDescription("Report the health of the record, asset and notification services."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.healthCheck,
		},
	}
}

func (t *tools) onboardEmployee(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := stringArg(req, "text")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	result, err := t.svc.Onboard(ctx, text, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("onboarding failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *tools) extractFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := stringArg(req, "text")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	fields, err := t.svc.Extract(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fields)
}

func (t *tools) listEmployees(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	employees, _, err := t.store.ListEmployees(ctx, listLimit, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(employees)
}

func (t *tools) listAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	employeeID, _ := stringArg(req, "employee_id")

	assets, _, err := t.store.ListAssets(ctx, employeeID, 0, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var total float64
	for _, a := range assets {
		total += a.Cost
	}
	return jsonResult(map[string]any{"items": assets, "total": len(assets), "total_cost": total})
}

func (t *tools) healthCheck(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(adapter.Aggregate(t.backend.Health(ctx)))
}

func stringArg(req mcp.CallToolRequest, name string) (string, bool) {
	v, ok := req.GetArguments()[name].(string)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
