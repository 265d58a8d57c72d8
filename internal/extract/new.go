package extract

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/llm"
)

// New returns the extractor selected by cfg.Extractor.
func New(cfg *config.Config, logger zerolog.Logger) (Extractor, error) {
	if cfg.Extractor != config.ExtractorLLM {
		return NewRegex(), nil
	}
	client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.BackendTimeout)
	return NewLLM(func(ctx context.Context, system, user string) (string, error) {
		return client.Complete(ctx, system, user, llm.JSONObject)
	}, logger)
}
