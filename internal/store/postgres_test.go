package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/onboarding/internal/model"
)

func TestPostgresStore_NextEmployeeID(t *testing.T) {
	db := &mockDB{}
	s := NewPostgresStore(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*int64)) = 12
			return nil
		},
	})

	id, err := s.NextEmployeeID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EMP012", id)
	db.AssertExpectations(t)
}

func TestPostgresStore_GetEmployee_NotFound(t *testing.T) {
	db := &mockDB{}
	s := NewPostgresStore(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"EMP404"}).Return(&mockRow{
		scanFunc: func(dest ...any) error { return pgx.ErrNoRows },
	})

	_, err := s.GetEmployee(context.Background(), "EMP404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_SaveEmployee_Error(t *testing.T) {
	db := &mockDB{}
	s := NewPostgresStore(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("connection reset"))

	err := s.SaveEmployee(context.Background(), &model.EmployeeRecord{ID: "EMP001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert employee")
}

func TestPostgresStore_ListEmployees_HasMore(t *testing.T) {
	db := &mockDB{}
	s := NewPostgresStore(db)
	now := time.Now()

	row := func(id string) func(dest ...any) error {
		return func(dest ...any) error {
			*(dest[0].(*string)) = id
			*(dest[1].(*string)) = "Name " + id
			*(dest[2].(*string)) = id + "@example.com"
			*(dest[3].(*string)) = "developer"
			*(dest[4].(*string)) = "engineering"
			*(dest[5].(*string)) = model.StatusActive
			*(dest[6].(*time.Time)) = now
			return nil
		}
	}

	db.On("Query", mock.Anything,
		"SELECT id, name, email, role, department, status, created_at FROM employees WHERE seq > (SELECT seq FROM employees WHERE id = $1) ORDER BY seq LIMIT $2",
		[]any{"EMP001", 3},
	).Return(newMockRows(row("EMP002"), row("EMP003"), row("EMP004")), nil)

	employees, hasMore, err := s.ListEmployees(context.Background(), 2, "EMP001")
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, employees, 2)
	assert.Equal(t, "EMP003", employees[1].ID)
	db.AssertExpectations(t)
}

func TestPostgresStore_SaveAssets_SingleStatement(t *testing.T) {
	db := &mockDB{}
	s := NewPostgresStore(db)
	now := time.Now()

	var gotSQL string
	var gotArgs []any
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			gotSQL = args.String(1)
			gotArgs = args.Get(2).([]any)
		}).
		Return(pgconn.CommandTag{}, nil).Once()

	err := s.SaveAssets(context.Background(), []model.Asset{
		{ID: "AST0001", Type: "laptop", Cost: 1200, AssignedTo: "EMP001", DeliveryDate: now, AllocatedAt: now},
		{ID: "AST0002", Type: "ID_card", Cost: 25, AssignedTo: "EMP001", DeliveryDate: now, AllocatedAt: now},
	})
	require.NoError(t, err)
	assert.Contains(t, gotSQL, "($8, $9, $10, $11, $12, $13, $14)")
	assert.Len(t, gotArgs, 14)
	db.AssertExpectations(t)
}

func TestPostgresStore_SaveAssets_Empty(t *testing.T) {
	db := &mockDB{}
	require.NoError(t, NewPostgresStore(db).SaveAssets(context.Background(), nil))
	assert.Empty(t, db.Calls)
}

func TestPostgresStore_GetRun_DecodesDocument(t *testing.T) {
	db := &mockDB{}
	s := NewPostgresStore(db)

	run := model.NewWorkflowResult("wf-1", "onboard", time.Now().UTC())
	run.OverallSuccess = true
	doc, err := json.Marshal(run)
	require.NoError(t, err)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"wf-1"}).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*[]byte)) = doc
			return nil
		},
	})

	got, err := s.GetRun(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", got.WorkflowID)
	assert.True(t, got.OverallSuccess)
}

func TestPageQuery(t *testing.T) {
	q, args := pageQuery("SELECT id FROM assets", "assets", []string{"assigned_to = $1"}, []any{"EMP001"}, 10, "AST0004")
	assert.Equal(t, "SELECT id FROM assets WHERE assigned_to = $1 AND seq > (SELECT seq FROM assets WHERE id = $2) ORDER BY seq LIMIT $3", q)
	assert.Equal(t, []any{"EMP001", "AST0004", 11}, args)

	q, args = pageQuery("SELECT id FROM assets", "assets", nil, nil, 0, "")
	assert.Equal(t, "SELECT id FROM assets ORDER BY seq", q)
	assert.Empty(t, args)
}
