package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nicheproof/nicheproof/internal/domain"
)

// ErrMalformedOutput marks a completion that could not be parsed as the
// expected JSON shape. The wrapped message carries a truncated raw
// excerpt for diagnostics.
var ErrMalformedOutput = errors.New("model returned malformed output")

const (
	rawExcerptLen = 200
	maxListLen    = 5
)

// NormalizeInstant parses a raw completion into an InstantResult,
// filling missing fields with safe defaults. The model is not trusted
// to follow the schema.
func NormalizeInstant(raw string, prefs domain.Preferences) (*domain.InstantResult, error) {
	var result domain.InstantResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %q)", ErrMalformedOutput, err, excerpt(raw))
	}

	defaultStr(&result.MicroNiche, "unnamed niche")
	defaultStr(&result.CoreProblem, "not identified")
	defaultStr(&result.FirstService.Name, "starter service")
	defaultStr(&result.FirstService.Outcome, "not specified")
	defaultStr(&result.OneActionToday, "talk to one potential buyer")
	result.BuyerPlaces = boundList(result.BuyerPlaces)

	if result.Meta.Lane == "" {
		result.Meta.Lane = prefs.Lane
	}
	result.Meta.Confidence = clamp(result.Meta.Confidence, 0, 100)
	defaultStr(&result.Meta.ConfidenceWhy, "insufficient signal")
	result.Meta.ConfidenceDrivers = boundList(result.Meta.ConfidenceDrivers)
	result.Meta.ConfidenceRaise = boundList(result.Meta.ConfidenceRaise)
	result.Meta.GatesPassed = boundList(result.Meta.GatesPassed)

	return &result, nil
}

// NormalizeDeep parses a raw completion into a DeepResult with the same
// defensive posture. The test plan is bounded: a report promising more
// than five steps is trimmed, not rejected.
func NormalizeDeep(raw string) (*domain.DeepResult, error) {
	var result domain.DeepResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %q)", ErrMalformedOutput, err, excerpt(raw))
	}

	switch strings.ToLower(strings.TrimSpace(result.Verdict)) {
	case "go", "maybe", "no-go":
		result.Verdict = strings.ToLower(strings.TrimSpace(result.Verdict))
	default:
		result.Verdict = "maybe"
	}

	defaultStr(&result.Why, "not provided")
	defaultStr(&result.Money.StartupCost, "unknown")
	defaultStr(&result.Money.SuggestedPrice, "unknown")
	defaultStr(&result.Money.MonthlyCeiling, "unknown")
	defaultStr(&result.FirstMove.Channel, "email")
	defaultStr(&result.FirstMove.Message, "not provided")
	result.TestPlan = boundList(result.TestPlan)
	result.KillSwitch = boundList(result.KillSwitch)

	return &result, nil
}

// stripFences removes a markdown code fence if the model wrapped its
// JSON in one despite instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func excerpt(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > rawExcerptLen {
		return s[:rawExcerptLen] + "..."
	}
	return s
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func defaultStr(s *string, fallback string) {
	if strings.TrimSpace(*s) == "" {
		*s = fallback
	}
}

func boundList(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(item))
		if len(out) == maxListLen {
			break
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
