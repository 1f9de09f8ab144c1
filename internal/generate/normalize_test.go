package generate

import (
	"errors"
	"strings"
	"testing"

	"github.com/nicheproof/nicheproof/internal/domain"
)

func TestNormalizeInstantFillsDefaults(t *testing.T) {
	prefs := domain.Preferences{Lane: "local"}

	result, err := NormalizeInstant(`{"microNiche": "dog grooming for seniors"}`, prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MicroNiche != "dog grooming for seniors" {
		t.Errorf("unexpected niche: %q", result.MicroNiche)
	}
	if result.CoreProblem == "" || result.FirstService.Name == "" || result.OneActionToday == "" {
		t.Errorf("expected defaults for missing fields, got %+v", result)
	}
	if result.Meta.Lane != "local" {
		t.Errorf("expected lane to fall back to preferences, got %q", result.Meta.Lane)
	}
	if result.BuyerPlaces == nil {
		t.Error("expected empty slice, not nil, for missing buyerPlaces")
	}
}

func TestNormalizeInstantClampsConfidence(t *testing.T) {
	for raw, want := range map[string]int{
		`{"meta": {"confidence": 150}}`: 100,
		`{"meta": {"confidence": -3}}`:  0,
		`{"meta": {"confidence": 62}}`:  62,
	} {
		result, err := NormalizeInstant(raw, domain.Preferences{Lane: "services"})
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", raw, err)
		}
		if result.Meta.Confidence != want {
			t.Errorf("%s: expected confidence %d, got %d", raw, want, result.Meta.Confidence)
		}
	}
}

func TestNormalizeInstantStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"microNiche\": \"fenced\"}\n```"

	result, err := NormalizeInstant(raw, domain.Preferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MicroNiche != "fenced" {
		t.Errorf("expected fenced JSON to parse, got %q", result.MicroNiche)
	}
}

func TestNormalizeInstantRejectsNonJSON(t *testing.T) {
	long := "Sure! Here is a great idea for you: " + strings.Repeat("x", 500)

	_, err := NormalizeInstant(long, domain.Preferences{})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if len(err.Error()) > 400 {
		t.Errorf("expected truncated excerpt in error, got %d chars", len(err.Error()))
	}
}

func TestNormalizeDeepBoundsTestPlan(t *testing.T) {
	raw := `{"verdict": "GO", "testPlan": ["1","2","3","4","5","6","7"], "killSwitch": ["", "no replies in 7 days"]}`

	result, err := NormalizeDeep(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.TestPlan) != 5 {
		t.Errorf("expected test plan capped at 5 steps, got %d", len(result.TestPlan))
	}
	if result.Verdict != "go" {
		t.Errorf("expected verdict normalized to go, got %q", result.Verdict)
	}
	if len(result.KillSwitch) != 1 || result.KillSwitch[0] != "no replies in 7 days" {
		t.Errorf("expected blank entries dropped, got %v", result.KillSwitch)
	}
}

func TestNormalizeDeepUnknownVerdict(t *testing.T) {
	result, err := NormalizeDeep(`{"verdict": "definitely!!"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verdict != "maybe" {
		t.Errorf("expected unknown verdict coerced to maybe, got %q", result.Verdict)
	}
	if result.Money.StartupCost != "unknown" {
		t.Errorf("expected money defaults, got %+v", result.Money)
	}
}
