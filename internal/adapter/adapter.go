// Package adapter is the boundary between onboarding runs and the services
// that hold employee records, hand out equipment and send notifications.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/metrics"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/platform"
)

// Backend performs the three onboarding operations. Implementations return
// errors freely; the Adapter turns them into failed ServiceResults.
type Backend interface {
	CreateRecord(ctx context.Context, in model.CreateRecordInput) (*model.EmployeeRecord, error)
	AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) (*model.AllocationResult, error)
	SendWelcome(ctx context.Context, in model.NotifyInput) (*model.WelcomeResult, error)
	// Health maps each backing service name to "healthy" or "unhealthy".
	Health(ctx context.Context) map[string]string
}

// Adapter invokes Backend operations with a uniform request/result shape.
// Invoke never returns an error and never panics: every failure comes back
// as a ServiceResult with Success false.
type Adapter struct {
	backend  Backend
	validate *validator.Validate
	logger   zerolog.Logger
}

func New(backend Backend, logger zerolog.Logger) *Adapter {
	return &Adapter{
		backend:  backend,
		validate: validator.New(),
		logger:   logger.With().Str("component", "service-adapter").Logger(),
	}
}

// Invoke performs one operation. An empty RequestID is filled in.
func (a *Adapter) Invoke(ctx context.Context, req model.ServiceRequest) (res model.ServiceResult) {
	if req.RequestID == "" {
		req.RequestID = platform.NewRequestID()
	}
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res = model.ServiceResult{
				Success:   false,
				Error:     fmt.Sprintf("%s: unexpected failure: %v", req.Operation, p),
				RequestID: req.RequestID,
			}
		}
		metrics.ServiceCallsTotal.WithLabelValues(string(req.Operation), metrics.Outcome(res.Success)).Inc()

		ev := a.logger.Info()
		if !res.Success {
			ev = a.logger.Warn().Str("error", res.Error)
		}
		ev.Str("operation", string(req.Operation)).
			Str("request_id", req.RequestID).
			Bool("success", res.Success).
			Dur("duration", time.Since(start)).
			Msg("service call")
	}()

	out, err := a.dispatch(ctx, req)
	if err != nil {
		return failed(req.RequestID, err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return failed(req.RequestID, fmt.Errorf("encode %s result: %w", req.Operation, err))
	}
	return model.ServiceResult{Success: true, Result: data, RequestID: req.RequestID}
}

func (a *Adapter) dispatch(ctx context.Context, req model.ServiceRequest) (any, error) {
	switch req.Operation {
	case model.OpCreateRecord:
		var in model.CreateRecordInput
		if err := a.decode(req.Payload, &in); err != nil {
			return nil, err
		}
		return a.backend.CreateRecord(ctx, in)
	case model.OpAllocateAssets:
		var in model.AllocateAssetsInput
		if err := a.decode(req.Payload, &in); err != nil {
			return nil, err
		}
		return a.backend.AllocateAssets(ctx, in)
	case model.OpNotify:
		var in model.NotifyInput
		if err := a.decode(req.Payload, &in); err != nil {
			return nil, err
		}
		return a.backend.SendWelcome(ctx, in)
	default:
		return nil, fmt.Errorf("unknown operation %q", req.Operation)
	}
}

func (a *Adapter) decode(payload map[string]any, v any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := a.validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// CreateRecord invokes create_record.
func (a *Adapter) CreateRecord(ctx context.Context, in model.CreateRecordInput) model.ServiceResult {
	return a.invokeWith(ctx, model.OpCreateRecord, in)
}

// AllocateAssets invokes allocate_assets.
func (a *Adapter) AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) model.ServiceResult {
	return a.invokeWith(ctx, model.OpAllocateAssets, in)
}

// Notify invokes notify.
func (a *Adapter) Notify(ctx context.Context, in model.NotifyInput) model.ServiceResult {
	return a.invokeWith(ctx, model.OpNotify, in)
}

func (a *Adapter) invokeWith(ctx context.Context, op model.Operation, in any) model.ServiceResult {
	payload, err := toPayload(in)
	requestID := platform.NewRequestID()
	if err != nil {
		return failed(requestID, err)
	}
	return a.Invoke(ctx, model.ServiceRequest{Operation: op, RequestID: requestID, Payload: payload})
}

// Health reports per-service status plus an aggregate.
func (a *Adapter) Health(ctx context.Context) (report model.HealthReport) {
	defer func() {
		if p := recover(); p != nil {
			report = Aggregate(nil)
		}
	}()
	return Aggregate(a.backend.Health(ctx))
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Aggregate builds a HealthReport that is healthy only when every service
// is. No services at all counts as unhealthy.
func Aggregate(services map[string]string) model.HealthReport {
	if services == nil {
		services = map[string]string{}
	}
	report := model.HealthReport{Status: model.HealthHealthy, Services: services}
	if len(services) == 0 {
		report.Status = model.HealthUnhealthy
	}
	for _, status := range services {
		if status != model.HealthHealthy {
			report.Status = model.HealthUnhealthy
		}
	}
	return report
}

func failed(requestID string, err error) model.ServiceResult {
	return model.ServiceResult{Success: false, Error: err.Error(), RequestID: requestID}
}

func toPayload(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}
