package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/extract"
	"github.com/edvin/onboarding/internal/metrics"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/store"
)

// Service is the entry point used by the API and MCP surfaces. It runs
// instructions through an Onboarder, publishes progress to its Hub and
// serves the run history.
type Service struct {
	onboarder Onboarder
	extractor extract.Extractor
	store     store.Store
	hub       *Hub
	logger    zerolog.Logger
}

func NewService(o Onboarder, ex extract.Extractor, s store.Store, hub *Hub, logger zerolog.Logger) *Service {
	if hub == nil {
		hub = NewHub()
	}
	return &Service{
		onboarder: o,
		extractor: ex,
		store:     s,
		hub:       hub,
		logger:    logger.With().Str("component", "onboarding-service").Logger(),
	}
}

// Onboard runs one instruction. progress, if set, receives the same events
// as the hub.
func (s *Service) Onboard(ctx context.Context, text string, progress ProgressFunc) (*model.WorkflowResult, error) {
	start := time.Now()
	result, err := s.onboarder.Run(ctx, strings.TrimSpace(text), func(ev model.ProgressEvent) {
		s.hub.Publish(ev)
		if progress != nil {
			progress(ev)
		}
	})
	if errors.Is(err, ErrBusy) {
		metrics.RunsTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		return nil, err
	}
	if err != nil {
		metrics.RunsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("run onboarding: %w", err)
	}

	metrics.RunsTotal.WithLabelValues(metrics.Outcome(result.OverallSuccess)).Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// Extract runs field extraction alone, without starting a run.
func (s *Service) Extract(ctx context.Context, text string) (model.ExtractedFields, error) {
	fields, err := s.extractor.Extract(ctx, strings.TrimSpace(text))
	if err != nil {
		return model.ExtractedFields{}, fmt.Errorf("extract fields: %w", err)
	}
	return fields, nil
}

// Runs lists the run history, oldest first.
func (s *Service) Runs(ctx context.Context, limit int, cursor string) ([]model.WorkflowResult, bool, error) {
	runs, more, err := s.store.ListRuns(ctx, limit, cursor)
	if err != nil {
		return nil, false, fmt.Errorf("list runs: %w", err)
	}
	return runs, more, nil
}

// Run fetches one run by workflow id.
func (s *Service) Run(ctx context.Context, id string) (*model.WorkflowResult, error) {
	r, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// Reset clears every employee, asset, notification and run.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset onboarding data: %w", err)
	}
	s.logger.Info().Msg("onboarding data reset")
	return nil
}

func (s *Service) Hub() *Hub { return s.hub }
