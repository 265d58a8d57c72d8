package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/store"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestSimulated() (*Simulated, *store.MemoryStore) {
	s := store.NewMemoryStore()
	b := NewSimulated(s, catalog.Default())
	b.now = func() time.Time { return fixedNow }
	b.deliveryDays = func(int) int { return 3 }
	return b, s
}

func TestSimulated_CreateRecord(t *testing.T) {
	b, s := newTestSimulated()
	ctx := context.Background()

	rec, err := b.CreateRecord(ctx, model.CreateRecordInput{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "EMP001", rec.ID)
	assert.Equal(t, model.DefaultRole, rec.Role)
	assert.Equal(t, model.DefaultDepartment, rec.Department)
	assert.Equal(t, model.StatusActive, rec.Status)
	assert.Equal(t, fixedNow, rec.CreatedAt)

	second, err := b.CreateRecord(ctx, model.CreateRecordInput{Name: "John Smith", Email: "john@example.com", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "EMP002", second.ID)

	got, err := s.GetEmployee(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
}

func TestSimulated_AllocateAssets_DeveloperBundle(t *testing.T) {
	b, s := newTestSimulated()
	ctx := context.Background()

	rec, err := b.CreateRecord(ctx, model.CreateRecordInput{Name: "Jane Doe", Email: "jane@example.com", Role: "developer"})
	require.NoError(t, err)

	res, err := b.AllocateAssets(ctx, model.AllocateAssetsInput{EmployeeID: rec.ID})
	require.NoError(t, err)

	var types []string
	for _, a := range res.Allocated {
		types = append(types, a.Type)
		assert.Equal(t, rec.ID, a.AssignedTo)
		assert.Equal(t, model.StatusAllocated, a.Status)
		assert.Equal(t, fixedNow.AddDate(0, 0, 3), a.DeliveryDate)
	}
	assert.Equal(t, []string{"laptop", "ID_card", "welcome_bag", "access_card", "development_tools"}, types)
	assert.Equal(t, "AST0001", res.Allocated[0].ID)
	assert.Equal(t, "AST0005", res.Allocated[4].ID)
	assert.InDelta(t, 1325.0, res.TotalCost, 0.001)

	stored, _, err := s.ListAssets(ctx, rec.ID, 0, "")
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestSimulated_AllocateAssets_ExplicitTypes(t *testing.T) {
	b, _ := newTestSimulated()
	ctx := context.Background()

	rec, err := b.CreateRecord(ctx, model.CreateRecordInput{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	res, err := b.AllocateAssets(ctx, model.AllocateAssetsInput{EmployeeID: rec.ID, AssetTypes: []string{"gaming_laptop", "tote_bag"}})
	require.NoError(t, err)
	require.Len(t, res.Allocated, 2)
	assert.Equal(t, 1200.0, res.Allocated[0].Cost)
	assert.Equal(t, 50.0, res.Allocated[1].Cost)
}

func TestSimulated_AllocateAssets_UnknownEmployee(t *testing.T) {
	b, _ := newTestSimulated()

	_, err := b.AllocateAssets(context.Background(), model.AllocateAssetsInput{EmployeeID: "EMP404"})
	require.Error(t, err)
	assert.Equal(t, "employee EMP404 not found", err.Error())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSimulated_SendWelcome(t *testing.T) {
	b, s := newTestSimulated()
	ctx := context.Background()

	res, err := b.SendWelcome(ctx, model.NotifyInput{EmployeeID: "EMP001", Name: "Jane Doe", Email: "jane@example.com", Role: "developer"})
	require.NoError(t, err)
	require.Len(t, res.Notifications, 3)

	recipients := map[string]string{}
	for _, n := range res.Notifications {
		recipients[n.Channel] = n.Recipient
		assert.Equal(t, model.StatusSent, n.Status)
	}
	assert.Equal(t, map[string]string{
		"email": "jane@example.com",
		"sms":   DefaultSMSNumber,
		"slack": "@janedoe",
	}, recipients)
	assert.Contains(t, res.Message, "Dear Jane Doe,")
	assert.Contains(t, res.Message, "onboarding as developer")

	stored, err := s.ListNotifications(ctx, "EMP001")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestSimulated_Health(t *testing.T) {
	b, _ := newTestSimulated()
	a := New(b, nopLogger())

	report := a.Health(context.Background())
	assert.Equal(t, model.HealthHealthy, report.Status)
	assert.Len(t, report.Services, 3)
}
