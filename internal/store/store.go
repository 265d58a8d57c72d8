// Package store keeps employee records, allocated assets, sent notifications
// and the run history. Records are append-only: nothing is updated or deleted
// except by Reset.
package store

import (
	"context"
	"errors"

	"github.com/edvin/onboarding/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	// NextEmployeeID reserves the next sequential employee identifier.
	NextEmployeeID(ctx context.Context) (string, error)
	SaveEmployee(ctx context.Context, e *model.EmployeeRecord) error
	GetEmployee(ctx context.Context, id string) (*model.EmployeeRecord, error)
	ListEmployees(ctx context.Context, limit int, cursor string) ([]model.EmployeeRecord, bool, error)

	// NextAssetIDs reserves n sequential asset identifiers.
	NextAssetIDs(ctx context.Context, n int) ([]string, error)
	SaveAssets(ctx context.Context, assets []model.Asset) error
	// ListAssets lists assets, optionally restricted to one employee.
	ListAssets(ctx context.Context, employeeID string, limit int, cursor string) ([]model.Asset, bool, error)

	SaveNotifications(ctx context.Context, ns []model.Notification) error
	ListNotifications(ctx context.Context, employeeID string) ([]model.Notification, error)

	// SaveRun inserts or replaces a run by workflow id.
	SaveRun(ctx context.Context, r *model.WorkflowResult) error
	GetRun(ctx context.Context, id string) (*model.WorkflowResult, error)
	ListRuns(ctx context.Context, limit int, cursor string) ([]model.WorkflowResult, bool, error)

	// Reset drops every record and restarts the identifier sequences.
	Reset(ctx context.Context) error
}

const (
	EmployeeIDPrefix = "EMP"
	AssetIDPrefix    = "AST"
)
