package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/platform"
)

// DB is the subset of pgxpool.Pool the Postgres store uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists records in the core database. Tables come from
// migrations/core.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) NextEmployeeID(ctx context.Context) (string, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT nextval('employee_id_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next employee id: %w", err)
	}
	return platform.SequentialID(EmployeeIDPrefix, int(n), 3), nil
}

func (s *PostgresStore) SaveEmployee(ctx context.Context, e *model.EmployeeRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO employees (id, name, email, role, department, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Name, e.Email, e.Role, e.Department, e.Status, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id string) (*model.EmployeeRecord, error) {
	var e model.EmployeeRecord
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, role, department, status, created_at FROM employees WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get employee %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	return &e, nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context, limit int, cursor string) ([]model.EmployeeRecord, bool, error) {
	query, args := pageQuery(
		`SELECT id, name, email, role, department, status, created_at FROM employees`,
		"employees", nil, nil, limit, cursor,
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := []model.EmployeeRecord{}
	for rows.Next() {
		var e model.EmployeeRecord
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Status, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate employees: %w", err)
	}

	hasMore := limit > 0 && len(employees) > limit
	if hasMore {
		employees = employees[:limit]
	}
	return employees, hasMore, nil
}

func (s *PostgresStore) NextAssetIDs(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT nextval('asset_id_seq') FROM generate_series(1, $1)`, n)
	if err != nil {
		return nil, fmt.Errorf("next asset ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, n)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan asset id: %w", err)
		}
		ids = append(ids, platform.SequentialID(AssetIDPrefix, int(v), 4))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset ids: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) SaveAssets(ctx context.Context, assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	var values []string
	args := make([]any, 0, len(assets)*7)
	for i, a := range assets {
		base := i * 7
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, a.ID, a.Type, a.Cost, a.Status, a.AssignedTo, a.DeliveryDate, a.AllocatedAt)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO assets (id, type, cost, status, assigned_to, delivery_date, allocated_at) VALUES `+
			strings.Join(values, ", "),
		args...,
	)
	if err != nil {
		return fmt.Errorf("insert assets: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAssets(ctx context.Context, employeeID string, limit int, cursor string) ([]model.Asset, bool, error) {
	var where []string
	var args []any
	if employeeID != "" {
		where = append(where, "assigned_to = $1")
		args = append(args, employeeID)
	}
	query, args := pageQuery(
		`SELECT id, type, cost, status, assigned_to, delivery_date, allocated_at FROM assets`,
		"assets", where, args, limit, cursor,
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Type, &a.Cost, &a.Status, &a.AssignedTo, &a.DeliveryDate, &a.AllocatedAt); err != nil {
			return nil, false, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate assets: %w", err)
	}

	hasMore := limit > 0 && len(assets) > limit
	if hasMore {
		assets = assets[:limit]
	}
	return assets, hasMore, nil
}

func (s *PostgresStore) SaveNotifications(ctx context.Context, ns []model.Notification) error {
	for _, n := range ns {
		_, err := s.db.Exec(ctx,
			`INSERT INTO notifications (id, employee_id, channel, recipient, status, sent_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			n.ID, n.EmployeeID, n.Channel, n.Recipient, n.Status, n.SentAt,
		)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListNotifications(ctx context.Context, employeeID string) ([]model.Notification, error) {
	query := `SELECT id, employee_id, channel, recipient, status, sent_at FROM notifications`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Channel, &n.Recipient, &n.Status, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, r *model.WorkflowResult) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", r.WorkflowID, err)
	}

	var completedAt any
	if !r.CompletionTime.IsZero() {
		completedAt = r.CompletionTime
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO onboarding_runs (id, input, state, overall_success, employee_id, error, result, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   state = EXCLUDED.state,
		   overall_success = EXCLUDED.overall_success,
		   employee_id = EXCLUDED.employee_id,
		   error = EXCLUDED.error,
		   result = EXCLUDED.result,
		   completed_at = EXCLUDED.completed_at`,
		r.WorkflowID, r.Input, string(r.State), r.OverallSuccess, r.EmployeeID, r.Error, doc, r.StartedAt, completedAt,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.WorkflowID, err)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*model.WorkflowResult, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT result FROM onboarding_runs WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	var r model.WorkflowResult
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int, cursor string) ([]model.WorkflowResult, bool, error) {
	query, args := pageQuery(`SELECT result FROM onboarding_runs`, "onboarding_runs", nil, nil, limit, cursor)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []model.WorkflowResult{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, false, fmt.Errorf("scan run: %w", err)
		}
		var r model.WorkflowResult
		if err := json.Unmarshal(doc, &r); err != nil {
			return nil, false, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate runs: %w", err)
	}

	hasMore := limit > 0 && len(runs) > limit
	if hasMore {
		runs = runs[:limit]
	}
	return runs, hasMore, nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	for _, stmt := range []string{
		`TRUNCATE onboarding_runs, notifications, assets, employees RESTART IDENTITY`,
		`ALTER SEQUENCE employee_id_seq RESTART`,
		`ALTER SEQUENCE asset_id_seq RESTART`,
	} {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
	}
	return nil
}

// pageQuery appends the cursor condition, insertion ordering and a limit+1
// clause to base. where may already reference $1..$len(args).
func pageQuery(base, table string, where []string, args []any, limit int, cursor string) (string, []any) {
	argIdx := len(args) + 1

	if cursor != "" {
		where = append(where, fmt.Sprintf("seq > (SELECT seq FROM %s WHERE id = $%d)", table, argIdx))
		args = append(args, cursor)
		argIdx++
	}

	query := base
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit+1)
	}
	return query, args
}
