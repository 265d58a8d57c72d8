package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/model"
)

// HTTPConfig configures the remote backend.
type HTTPConfig struct {
	RecordsURL       string
	AssetsURL        string
	NotificationsURL string
	APIKey           string
	// Timeout bounds each outbound request, not the whole operation.
	Timeout    time.Duration
	MaxRetries int
}

// HTTPBackend calls remote record, asset and notification services over
// their JSON contract.
type HTTPBackend struct {
	cfg     HTTPConfig
	client  *http.Client
	catalog *catalog.Catalog
	backoff time.Duration
}

func NewHTTPBackend(cfg HTTPConfig, c *catalog.Catalog) *HTTPBackend {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPBackend{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		catalog: c,
		backoff: 250 * time.Millisecond,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func (b *HTTPBackend) CreateRecord(ctx context.Context, in model.CreateRecordInput) (*model.EmployeeRecord, error) {
	var rec model.EmployeeRecord
	if err := b.do(ctx, http.MethodPost, b.cfg.RecordsURL+"/employees", in, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("create employee: response carried no id")
	}
	return &rec, nil
}

// AllocateAssets requests each asset type separately. The allocation counts
// as successful when at least one request succeeded; refused types are
// listed in Failed.
func (b *HTTPBackend) AllocateAssets(ctx context.Context, in model.AllocateAssetsInput) (*model.AllocationResult, error) {
	types := in.AssetTypes
	if len(types) == 0 {
		types = b.catalog.Bundle(orDefault(in.Role, model.DefaultRole))
	}

	result := &model.AllocationResult{EmployeeID: in.EmployeeID, Allocated: []model.Asset{}}
	var errs []string
	for _, t := range types {
		req := model.AllocateAssetsInput{
			EmployeeID: in.EmployeeID,
			Role:       in.Role,
			Department: in.Department,
			AssetTypes: []string{t},
		}
		var part model.AllocationResult
		if err := b.do(ctx, http.MethodPost, b.cfg.AssetsURL+"/assets/allocate", req, &part); err != nil {
			result.Failed = append(result.Failed, t)
			errs = append(errs, fmt.Sprintf("%s: %v", t, err))
			continue
		}
		result.Allocated = append(result.Allocated, part.Allocated...)
		result.TotalCost += part.TotalCost
	}

	if len(result.Allocated) == 0 {
		return nil, fmt.Errorf("no assets allocated: %s", strings.Join(errs, "; "))
	}
	return result, nil
}

func (b *HTTPBackend) SendWelcome(ctx context.Context, in model.NotifyInput) (*model.WelcomeResult, error) {
	var out model.WelcomeResult
	if err := b.do(ctx, http.MethodPost, b.cfg.NotificationsURL+"/notifications/welcome", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes every service concurrently. A service is healthy when its
// /health endpoint answers 2xx with status "healthy".
func (b *HTTPBackend) Health(ctx context.Context) map[string]string {
	services := []struct{ name, url string }{
		{model.ServiceRecords, b.cfg.RecordsURL},
		{model.ServiceAssets, b.cfg.AssetsURL},
		{model.ServiceNotifications, b.cfg.NotificationsURL},
	}
	statuses := make([]string, len(services))

	g, gctx := errgroup.WithContext(ctx)
	for i, svc := range services {
		g.Go(func() error {
			var body struct {
				Status string `json:"status"`
			}
			statuses[i] = model.HealthUnhealthy
			if err := b.send(gctx, http.MethodGet, svc.url+"/health", nil, &body); err == nil && body.Status == model.HealthHealthy {
				statuses[i] = model.HealthHealthy
			}
			// Never fail the group: one sick service must not cancel the others' probes.
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]string, len(services))
	for i, svc := range services {
		out[svc.name] = statuses[i]
	}
	return out
}

// do sends one request with the configured retry budget. Transport errors
// and 5xx responses are retried; 4xx responses are not.
func (b *HTTPBackend) do(ctx context.Context, method, url string, in, out any) error {
	if b.cfg.MaxRetries <= 0 {
		return b.send(ctx, method, url, in, out)
	}

	backoff := retry.WithMaxRetries(uint64(b.cfg.MaxRetries), retry.NewExponential(b.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := b.send(ctx, method, url, in, out)
		if err == nil {
			return nil
		}
		if se, ok := err.(*StatusError); ok && se.StatusCode < 500 {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (b *HTTPBackend) send(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", url, err)
	}
	return nil
}
