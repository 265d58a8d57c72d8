// Package extract pulls onboarding fields out of free-text instructions.
package extract

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/edvin/onboarding/internal/model"
)

// Extractor turns an instruction into structured fields. Implementations
// never fail on unrecognised input; missing fields are left empty or at
// their defaults and the caller decides whether that is acceptable.
type Extractor interface {
	Extract(ctx context.Context, text string) (model.ExtractedFields, error)
}

// Evidence weights added to the confidence score per matched field.
const (
	WeightEmail        = 0.4
	WeightName         = 0.3
	WeightFallbackName = 0.25
	WeightRole         = 0.2
	WeightDepartment   = 0.1
)

// AllowedRoles are the only role tokens accepted from input.
var AllowedRoles = map[string]bool{
	"developer": true,
	"manager":   true,
	"intern":    true,
	"executive": true,
	"admin":     true,
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Two or more capitalised words directly followed by a comma or an email.
	// \b is ASCII-only in RE2, so the start of a name is anchored on any
	// non-letter instead.
	namePattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(\p{Lu}[\p{L}'-]+(?:[ \t]+\p{Lu}[\p{L}'-]+)+)[ \t]*(?:,|[ \t]+[A-Za-z0-9._%+-]+@)`)

	// A trigger word followed, eventually, by capitalised words.
	fallbackNamePattern = regexp.MustCompile(`(?i:employee|onboard|add|create|process).*?(\p{Lu}\p{Ll}+(?:[ \t]+\p{Lu}\p{Ll}+)*)`)

	rolePattern = regexp.MustCompile(`(?i)\b(?:as|for|role)\s+([a-z]+)(?:\s|$|,)`)

	// An article between the keyword and the department is skipped:
	// "in the engineering team" is engineering.
	departmentPattern = regexp.MustCompile(`(?i)\b(?:in|department|dept)\s+(?:(?:the|a|an|our)\s+)?([a-z]+)(?:\s|$|,)`)
)

// Words that can open a sentence in capitals but are never part of a name.
var leadingNoise = map[string]bool{
	"onboard": true, "employee": true, "add": true, "create": true,
	"process": true, "new": true, "hire": true, "please": true,
}

// Regex is the pattern-matching extractor.
type Regex struct{}

func NewRegex() *Regex { return &Regex{} }

// Extract implements Extractor. It never returns an error.
func (Regex) Extract(_ context.Context, text string) (model.ExtractedFields, error) {
	return Fields(text), nil
}

// Fields runs every pattern against text and accumulates confidence.
func Fields(text string) model.ExtractedFields {
	out := model.NewExtractedFields()
	var score float64

	if m := emailPattern.FindString(text); m != "" {
		out.Email = m
		score += WeightEmail
	}

	if name := matchName(text); name != "" {
		out.Name = name
		score += WeightName
	} else if m := fallbackNamePattern.FindStringSubmatch(text); m != nil {
		out.Name = strings.TrimSpace(m[1])
		score += WeightFallbackName
	}

	for _, m := range rolePattern.FindAllStringSubmatch(text, -1) {
		if role := strings.ToLower(m[1]); AllowedRoles[role] {
			out.Role = role
			score += WeightRole
			break
		}
	}

	if m := departmentPattern.FindStringSubmatch(text); m != nil {
		out.Department = strings.ToLower(m[1])
		score += WeightDepartment
	}

	out.Confidence = normalizeConfidence(score)
	return out
}

// matchName returns the first "Full Name," or "Full Name email" match with
// any leading trigger words removed. A match that shrinks to a single word
// is discarded so the fallback pattern gets its turn.
func matchName(text string) string {
	for _, m := range namePattern.FindAllStringSubmatch(text, -1) {
		words := strings.Fields(m[1])
		for len(words) > 0 && leadingNoise[strings.ToLower(words[0])] {
			words = words[1:]
		}
		if len(words) >= 2 {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// normalizeConfidence rounds to two decimals, hiding float drift from the
// additive weights, and caps the score at 1.0.
func normalizeConfidence(score float64) float64 {
	return math.Min(1.0, math.Round(score*100)/100)
}
