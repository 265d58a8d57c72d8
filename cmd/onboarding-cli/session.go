package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/app"
	"github.com/edvin/onboarding/internal/cli"
	"github.com/edvin/onboarding/internal/client"
	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/onboarding"
)

// session is what every command talks to, remote or in-process.
type session interface {
	Onboard(ctx context.Context, text string, progress onboarding.ProgressFunc) (*model.WorkflowResult, error)
	Extract(ctx context.Context, text string) (*model.ExtractedFields, error)
	Employees(ctx context.Context) ([]model.EmployeeRecord, error)
	Assets(ctx context.Context, employeeID string) (*client.AssetList, error)
	Runs(ctx context.Context, limit int) ([]model.WorkflowResult, error)
	Health(ctx context.Context) (*model.HealthReport, error)
	Close()
}

func openSession(ctx context.Context) (session, error) {
	if flagLocal {
		return newLocalSession(ctx)
	}
	url, key := cli.Resolve(flagAPIURL, flagAPIKey)
	return &remoteSession{c: client.New(url, key)}, nil
}

type remoteSession struct {
	c *client.Client
}

// Onboard ignores progress; use the watch command to follow runs remotely.
func (s *remoteSession) Onboard(ctx context.Context, text string, _ onboarding.ProgressFunc) (*model.WorkflowResult, error) {
	result, err := s.c.Onboard(ctx, text)
	var se *client.StatusError
	if result != nil && errors.As(err, &se) {
		// The run happened; its result carries the failure.
		return result, nil
	}
	return result, err
}

func (s *remoteSession) Extract(ctx context.Context, text string) (*model.ExtractedFields, error) {
	return s.c.Extract(ctx, text)
}

func (s *remoteSession) Employees(ctx context.Context) ([]model.EmployeeRecord, error) {
	var all []model.EmployeeRecord
	cursor := ""
	for {
		page, err := s.c.ListEmployees(ctx, 200, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasMore || page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

func (s *remoteSession) Assets(ctx context.Context, employeeID string) (*client.AssetList, error) {
	return s.c.ListAssets(ctx, employeeID)
}

func (s *remoteSession) Runs(ctx context.Context, limit int) ([]model.WorkflowResult, error) {
	page, err := s.c.ListRuns(ctx, limit, "")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *remoteSession) Health(ctx context.Context) (*model.HealthReport, error) {
	return s.c.Health(ctx)
}

func (s *remoteSession) Close() {}

type localSession struct {
	stack *app.Stack
}

func newLocalSession(ctx context.Context) (*localSession, error) {
	cfg := &config.Config{
		BackendMode: config.BackendSimulated,
		Runner:      config.RunnerLocal,
		Extractor:   config.ExtractorRegex,
		LogLevel:    "warn",
	}
	stack, err := app.New(ctx, cfg, zerolog.Nop(), app.Options{})
	if err != nil {
		return nil, fmt.Errorf("build local stack: %w", err)
	}
	return &localSession{stack: stack}, nil
}

func (s *localSession) Onboard(ctx context.Context, text string, progress onboarding.ProgressFunc) (*model.WorkflowResult, error) {
	return s.stack.Service.Onboard(ctx, text, progress)
}

func (s *localSession) Extract(ctx context.Context, text string) (*model.ExtractedFields, error) {
	f, err := s.stack.Service.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *localSession) Employees(ctx context.Context) ([]model.EmployeeRecord, error) {
	employees, _, err := s.stack.Store.ListEmployees(ctx, 0, "")
	return employees, err
}

func (s *localSession) Assets(ctx context.Context, employeeID string) (*client.AssetList, error) {
	assets, _, err := s.stack.Store.ListAssets(ctx, employeeID, 0, "")
	if err != nil {
		return nil, err
	}
	list := &client.AssetList{Items: assets, Total: len(assets)}
	for _, a := range assets {
		list.TotalCost += a.Cost
	}
	return list, nil
}

func (s *localSession) Runs(ctx context.Context, limit int) ([]model.WorkflowResult, error) {
	runs, _, err := s.stack.Service.Runs(ctx, limit, "")
	return runs, err
}

func (s *localSession) Health(ctx context.Context) (*model.HealthReport, error) {
	report := adapter.Aggregate(s.stack.Backend.Health(ctx))
	return &report, nil
}

func (s *localSession) Close() { s.stack.Close() }
