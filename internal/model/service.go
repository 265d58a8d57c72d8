package model

import (
	"encoding/json"
	"fmt"
)

// Operation names one logical remote call made through the service adapter.
type Operation string

const (
	OpCreateRecord   Operation = "create_record"
	OpAllocateAssets Operation = "allocate_assets"
	OpNotify         Operation = "notify"
)

type ServiceRequest struct {
	Operation Operation      `json:"operation"`
	RequestID string         `json:"request_id"`
	Payload   map[string]any `json:"payload"`
}

type ServiceResult struct {
	Success   bool            `json:"success"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	RequestID string          `json:"request_id"`
}

// Decode unmarshals the result payload into v.
func (r ServiceResult) Decode(v any) error {
	if len(r.Result) == 0 {
		return fmt.Errorf("service result %s has no payload", r.RequestID)
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("decode service result %s: %w", r.RequestID, err)
	}
	return nil
}

// CreateRecordInput is the payload of a create_record call.
type CreateRecordInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// AllocateAssetsInput is the payload of an allocate_assets call. When
// AssetTypes is empty the bundle is chosen from Role.
type AllocateAssetsInput struct {
	EmployeeID string   `json:"employeeId" validate:"required"`
	Role       string   `json:"role,omitempty"`
	Department string   `json:"department,omitempty"`
	AssetTypes []string `json:"assetTypes,omitempty"`
}

// NotifyInput is the payload of a notify call.
type NotifyInput struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role"`
}

// AllocationResult is the result payload of allocate_assets. Failed lists
// asset types the backend refused when allocation was only partial.
type AllocationResult struct {
	EmployeeID string   `json:"employeeId"`
	Allocated  []Asset  `json:"allocated"`
	TotalCost  float64  `json:"totalCost"`
	Failed     []string `json:"failed,omitempty"`
}

// WelcomeResult is the result payload of notify.
type WelcomeResult struct {
	EmployeeID    string         `json:"employeeId"`
	Notifications []Notification `json:"notifications"`
	Message       string         `json:"message"`
}

// HealthReport is the aggregate health of the backing services.
type HealthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
