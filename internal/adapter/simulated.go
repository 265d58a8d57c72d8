package adapter

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/platform"
	"github.com/edvin/onboarding/internal/store"
)

// DefaultSMSNumber is where simulated SMS notifications go; instructions
// never carry a phone number.
const DefaultSMSNumber = "+1234567890"

const welcomeTemplate = `Dear %s,

Welcome to our company! Your onboarding as %s has been completed.

Your assets have been allocated and welcome notifications sent via multiple channels.

Best regards,
HR Team`

// Simulated fulfils every operation in-process against a Store. It always
// succeeds for well-formed input.
type Simulated struct {
	store   store.Store
	catalog *catalog.Catalog
	now     func() time.Time
	// deliveryDays returns a delivery offset in [1, window].
	deliveryDays func(window int) int
}

func NewSimulated(s store.Store, c *catalog.Catalog) *Simulated {
	return &Simulated{
		store:   s,
		catalog: c,
		now:     time.Now,
		deliveryDays: func(window int) int {
			return 1 + rand.IntN(window)
		},
	}
}

func (b *Simulated) CreateRecord(ctx context.Context, in model.CreateRecordInput) (*model.EmployeeRecord, error) {
	id, err := b.store.NextEmployeeID(ctx)
	if err != nil {
		return nil, fmt.Errorf("create employee record: %w", err)
	}

	rec := &model.EmployeeRecord{
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
		Role:       orDefault(in.Role, model.DefaultRole),
		Department: orDefault(in.Department, model.DefaultDepartment),
		Status:     model.StatusActive,
		CreatedAt:  b.now().UTC(),
	}
	if err := b.store.SaveEmployee(ctx, rec); err != nil {
		return nil, fmt.Errorf("create employee record: %w", err)
	}
	return rec, nil
}

func (b *Simulated) AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) (*model.AllocationResult, error) {
	employee, err := b.store.GetEmployee(ctx, in.EmployeeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("employee %s %w", in.EmployeeID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("allocate assets: %w", err)
	}

	types := in.AssetTypes
	if len(types) == 0 {
		types = b.catalog.Bundle(orDefault(in.Role, employee.Role))
	}

	ids, err := b.store.NextAssetIDs(ctx, len(types))
	if err != nil {
		return nil, fmt.Errorf("allocate assets: %w", err)
	}

	now := b.now().UTC()
	window := b.catalog.DeliveryWindowDays
	if window <= 0 {
		window = 7
	}

	result := &model.AllocationResult{EmployeeID: in.EmployeeID, Allocated: make([]model.Asset, 0, len(types))}
	for i, t := range types {
		asset := model.Asset{
			ID:           ids[i],
			Type:         t,
			Cost:         b.catalog.Cost(t),
			Status:       model.StatusAllocated,
			AssignedTo:   in.EmployeeID,
			DeliveryDate: now.AddDate(0, 0, b.deliveryDays(window)),
			AllocatedAt:  now,
		}
		result.Allocated = append(result.Allocated, asset)
		result.TotalCost += asset.Cost
	}

	if err := b.store.SaveAssets(ctx, result.Allocated); err != nil {
		return nil, fmt.Errorf("allocate assets: %w", err)
	}
	return result, nil
}

func (b *Simulated) SendWelcome(ctx context.Context, in model.NotifyInput) (*model.WelcomeResult, error) {
	now := b.now().UTC()
	role := orDefault(in.Role, model.DefaultRole)

	channels := []struct{ channel, recipient string }{
		{"email", in.Email},
		{"sms", DefaultSMSNumber},
		{"slack", platform.ChatHandle(in.Name)},
	}

	result := &model.WelcomeResult{
		EmployeeID: in.EmployeeID,
		Message:    WelcomeMessage(in.Name, role),
	}
	for _, c := range channels {
		result.Notifications = append(result.Notifications, model.Notification{
			ID:         platform.NewName("ntf_"),
			EmployeeID: in.EmployeeID,
			Channel:    c.channel,
			Recipient:  c.recipient,
			Status:     model.StatusSent,
			SentAt:     now,
		})
	}

	if err := b.store.SaveNotifications(ctx, result.Notifications); err != nil {
		return nil, fmt.Errorf("send welcome notifications: %w", err)
	}
	return result, nil
}

// Health reports every simulated service as healthy.
func (b *Simulated) Health(_ context.Context) map[string]string {
	return map[string]string{
		model.ServiceRecords:       model.HealthHealthy,
		model.ServiceAssets:        model.HealthHealthy,
		model.ServiceNotifications: model.HealthHealthy,
	}
}

// WelcomeMessage renders the welcome text sent to a new employee.
func WelcomeMessage(name, role string) string {
	return fmt.Sprintf(welcomeTemplate, name, role)
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
