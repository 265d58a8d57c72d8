package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/edvin/onboarding/internal/model"
)

const llmSystemPrompt = `You extract onboarding details from an HR instruction.
Reply with a single JSON object with the keys "name", "email", "role" and "department".
Use null for anything the instruction does not state. Do not guess.
"role" must be one of developer, manager, intern, executive, admin or null.`

const llmReplySchema = `{
  "type": "object",
  "properties": {
    "name":       {"type": ["string", "null"], "maxLength": 200},
    "email":      {"type": ["string", "null"], "maxLength": 320},
    "role":       {"type": ["string", "null"]},
    "department": {"type": ["string", "null"], "maxLength": 100}
  },
  "required": ["name", "email"],
  "additionalProperties": true
}`

type llmReply struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
}

// LLM asks a language model for the fields and checks the reply against a
// JSON schema. Any failure falls back to the regex extractor, so callers see
// the same contract either way.
type LLM struct {
	complete func(ctx context.Context, text string) (string, error)
	schema   *gojsonschema.Schema
	logger   zerolog.Logger
}

// NewLLM builds an LLM extractor around a completion function, typically
// (*llm.Client).Complete bound with the JSON reply format.
func NewLLM(complete func(ctx context.Context, system, user string) (string, error), logger zerolog.Logger) (*LLM, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(llmReplySchema))
	if err != nil {
		return nil, fmt.Errorf("compile llm reply schema: %w", err)
	}
	return &LLM{
		complete: func(ctx context.Context, text string) (string, error) {
			return complete(ctx, llmSystemPrompt, text)
		},
		schema: schema,
		logger: logger.With().Str("component", "llm-extractor").Logger(),
	}, nil
}

// Extract implements Extractor.
func (e *LLM) Extract(ctx context.Context, text string) (model.ExtractedFields, error) {
	fields, err := e.extract(ctx, text)
	if err != nil {
		e.logger.Warn().Err(err).Msg("llm extraction failed, using pattern matching")
		return Fields(text), nil
	}
	return fields, nil
}

func (e *LLM) extract(ctx context.Context, text string) (model.ExtractedFields, error) {
	raw, err := e.complete(ctx, text)
	if err != nil {
		return model.ExtractedFields{}, err
	}
	raw = stripCodeFence(raw)

	result, err := e.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return model.ExtractedFields{}, fmt.Errorf("validate llm reply: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			msgs = append(msgs, re.String())
		}
		return model.ExtractedFields{}, fmt.Errorf("llm reply does not match schema: %s", strings.Join(msgs, "; "))
	}

	var reply llmReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return model.ExtractedFields{}, fmt.Errorf("decode llm reply: %w", err)
	}

	return fromReply(reply), nil
}

// fromReply applies the same allow-list, defaults and evidence weights as
// the pattern extractor.
func fromReply(r llmReply) model.ExtractedFields {
	out := model.NewExtractedFields()
	var score float64

	if email := deref(r.Email); emailPattern.MatchString(email) {
		out.Email = emailPattern.FindString(email)
		score += WeightEmail
	}
	if name := strings.Join(strings.Fields(deref(r.Name)), " "); strings.Contains(name, " ") {
		out.Name = name
		score += WeightName
	} else if name != "" {
		out.Name = name
		score += WeightFallbackName
	}
	if role := strings.ToLower(deref(r.Role)); AllowedRoles[role] {
		out.Role = role
		score += WeightRole
	}
	if dept := strings.ToLower(strings.TrimSpace(deref(r.Department))); dept != "" {
		out.Department = dept
		score += WeightDepartment
	}

	out.Confidence = normalizeConfidence(score)
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// stripCodeFence removes a ```json fence some models wrap replies in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
