package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/onboarding/internal/model"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CreateRecord(ctx context.Context, in model.CreateRecordInput) (*model.EmployeeRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmployeeRecord), args.Error(1)
}

func (m *mockBackend) AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) (*model.AllocationResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AllocationResult), args.Error(1)
}

func (m *mockBackend) SendWelcome(ctx context.Context, in model.NotifyInput) (*model.WelcomeResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WelcomeResult), args.Error(1)
}

func (m *mockBackend) Health(ctx context.Context) map[string]string {
	return m.Called(ctx).Get(0).(map[string]string)
}

var janeInput = model.CreateRecordInput{Name: "Jane Doe", Email: "jane.doe@example.com", Role: "developer", Department: "engineering"}

func TestInvoke_Success(t *testing.T) {
	b := &mockBackend{}
	a := New(b, zerolog.Nop())
	b.On("CreateRecord", mock.Anything, janeInput).Return(&model.EmployeeRecord{ID: "EMP001", Status: model.StatusActive}, nil)

	res := a.Invoke(context.Background(), model.ServiceRequest{
		Operation: model.OpCreateRecord,
		RequestID: "req-1",
		Payload:   map[string]any{"name": "Jane Doe", "email": "jane.doe@example.com", "role": "developer", "department": "engineering"},
	})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "req-1", res.RequestID)
	var rec model.EmployeeRecord
	require.NoError(t, res.Decode(&rec))
	assert.Equal(t, "EMP001", rec.ID)
	b.AssertExpectations(t)
}

func TestInvoke_GeneratesRequestID(t *testing.T) {
	b := &mockBackend{}
	a := New(b, zerolog.Nop())
	b.On("CreateRecord", mock.Anything, mock.Anything).Return(&model.EmployeeRecord{ID: "EMP001"}, nil)

	res := a.CreateRecord(context.Background(), janeInput)
	assert.True(t, res.Success)
	assert.Regexp(t, `^req_`, res.RequestID)
}

func TestInvoke_BackendErrorBecomesFailedResult(t *testing.T) {
	b := &mockBackend{}
	a := New(b, zerolog.Nop())
	b.On("SendWelcome", mock.Anything, mock.Anything).Return(nil, errors.New("HTTP 503: smtp relay down"))

	res := a.Notify(context.Background(), model.NotifyInput{EmployeeID: "EMP001", Name: "Jane Doe", Email: "jane@example.com"})
	assert.False(t, res.Success)
	assert.Equal(t, "HTTP 503: smtp relay down", res.Error)
	assert.Empty(t, res.Result)
}

func TestInvoke_PanicBecomesFailedResult(t *testing.T) {
	b := &mockBackend{}
	a := New(b, zerolog.Nop())
	b.On("AllocateAssets", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("nil map")
	})

	var res model.ServiceResult
	assert.NotPanics(t, func() {
		res = a.Invoke(context.Background(), model.ServiceRequest{
			Operation: model.OpAllocateAssets,
			RequestID: "req-9",
			Payload:   map[string]any{"employeeId": "EMP001"},
		})
	})
	assert.False(t, res.Success)
	assert.Equal(t, "req-9", res.RequestID)
	assert.Contains(t, res.Error, "nil map")
}

func TestInvoke_ValidationFailure(t *testing.T) {
	b := &mockBackend{}
	a := New(b, zerolog.Nop())

	res := a.CreateRecord(context.Background(), model.CreateRecordInput{Name: "Jane Doe", Email: "not-an-email"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "validation error")
	b.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
}

func TestInvoke_UnknownOperation(t *testing.T) {
	a := New(&mockBackend{}, zerolog.Nop())

	res := a.Invoke(context.Background(), model.ServiceRequest{Operation: "fire_employee"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, `unknown operation "fire_employee"`)
	assert.NotEmpty(t, res.RequestID)
}

func TestHealth_Aggregate(t *testing.T) {
	b := &mockBackend{}
	a := New(b, zerolog.Nop())

	b.On("Health", mock.Anything).Return(map[string]string{
		model.ServiceRecords: model.HealthHealthy,
		model.ServiceAssets:  model.HealthUnhealthy,
	}).Once()
	report := a.Health(context.Background())
	assert.Equal(t, model.HealthUnhealthy, report.Status)
	assert.Equal(t, model.HealthUnhealthy, report.Services[model.ServiceAssets])

	b.On("Health", mock.Anything).Return(map[string]string{model.ServiceRecords: model.HealthHealthy}).Once()
	assert.Equal(t, model.HealthHealthy, a.Health(context.Background()).Status)
}
