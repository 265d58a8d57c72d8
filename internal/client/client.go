// Package client is a thin REST client for the onboarding API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edvin/onboarding/internal/model"
)

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// StatusError is returned for any response with status >= 400.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// AssetList is the GET /assets body.
type AssetList struct {
	Items     []model.Asset `json:"items"`
	Total     int           `json:"total"`
	TotalCost float64       `json:"total_cost"`
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			// Onboarding runs three backend calls in sequence.
			Timeout: 2 * time.Minute,
		},
	}
}

// Onboard submits an instruction. When the API rejects it because required
// fields are missing, the partial WorkflowResult is returned together with
// the *StatusError.
func (c *Client) Onboard(ctx context.Context, text string) (*model.WorkflowResult, error) {
	var result model.WorkflowResult
	err := c.do(ctx, http.MethodPost, "/api/v1/onboard", map[string]string{"text": text}, &result)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest && result.WorkflowID != "" {
		return &result, err
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Extract(ctx context.Context, text string) (*model.ExtractedFields, error) {
	var fields model.ExtractedFields
	if err := c.do(ctx, http.MethodPost, "/api/v1/extract", map[string]string{"text": text}, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

func (c *Client) ListEmployees(ctx context.Context, limit int, cursor string) (*Page[model.EmployeeRecord], error) {
	var page Page[model.EmployeeRecord]
	if err := c.do(ctx, http.MethodGet, "/employees"+pageQuery(limit, cursor), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*model.EmployeeRecord, error) {
	var e model.EmployeeRecord
	if err := c.do(ctx, http.MethodGet, "/employees/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListAssets lists allocated assets, optionally for one employee.
func (c *Client) ListAssets(ctx context.Context, employeeID string) (*AssetList, error) {
	path := "/assets"
	if employeeID != "" {
		path += "?employee_id=" + url.QueryEscape(employeeID)
	}
	var list AssetList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListRuns(ctx context.Context, limit int, cursor string) (*Page[model.WorkflowResult], error) {
	var page Page[model.WorkflowResult]
	if err := c.do(ctx, http.MethodGet, "/api/v1/runs"+pageQuery(limit, cursor), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/reset", nil, nil)
}

// Health returns the aggregate backend health. An unhealthy report is not
// an error.
func (c *Client) Health(ctx context.Context) (*model.HealthReport, error) {
	var report model.HealthReport
	if err := c.do(ctx, http.MethodGet, "/health", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}

	if resp.StatusCode >= 400 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func pageQuery(limit int, cursor string) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
