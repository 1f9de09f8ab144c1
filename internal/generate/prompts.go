package generate

import (
	"fmt"

	"github.com/nicheproof/nicheproof/internal/domain"
)

const instantSystemPrompt = `You are a pragmatic small-business scout. You propose one micro-niche
at a time: narrow enough that a solo founder can reach its buyers this
week, concrete enough that the first paid service is obvious. You answer
ONLY with a single JSON object, no markdown, no prose around it.`

const deepSystemPrompt = `You are a skeptical business validator. Given a founder's constraints
you deliver a go/no-go decision report for one micro-niche: verdict,
reasoning, rough money math, a test plan of at most five steps a person
can finish in a week, one copy-paste outreach message, and the criteria
under which they should kill the idea. You answer ONLY with a single
JSON object, no markdown, no prose around it.`

func buildInstantPrompt(prefs domain.Preferences) string {
	return fmt.Sprintf(`Founder constraints:
- industry lane: %s
- weekly time budget: %s
- skill level: %s
- notes: %s

Propose exactly one micro-niche business idea. Respond with JSON of this
exact shape (every key present, arrays of short strings):
{
  "microNiche": "...",
  "coreProblem": "...",
  "firstService": {"name": "...", "outcome": "..."},
  "buyerPlaces": ["..."],
  "oneActionToday": "...",
  "meta": {
    "lane": "%s",
    "confidence": 0,
    "confidenceWhy": "...",
    "confidenceDrivers": ["..."],
    "confidenceRaise": ["..."],
    "gatesPassed": ["..."]
  }
}
confidence is an integer 0-100.`,
		prefs.Lane, orUnspecified(prefs.TimeBudget), orUnspecified(prefs.SkillLevel),
		orUnspecified(prefs.Notes), prefs.Lane)
}

func buildDeepPrompt(prefs domain.Preferences) string {
	return fmt.Sprintf(`Founder constraints:
- industry lane: %s
- weekly time budget: %s
- skill level: %s
- notes: %s

Produce the full validation report for the single best micro-niche for
these constraints. Respond with JSON of this exact shape:
{
  "verdict": "go" | "maybe" | "no-go",
  "why": "...",
  "money": {"startupCost": "...", "suggestedPrice": "...", "monthlyCeiling": "..."},
  "testPlan": ["step 1", "step 2"],
  "firstMove": {"channel": "...", "message": "..."},
  "killSwitch": ["..."]
}
testPlan has at most 5 steps. firstMove.message is ready to paste as-is.`,
		prefs.Lane, orUnspecified(prefs.TimeBudget), orUnspecified(prefs.SkillLevel),
		orUnspecified(prefs.Notes))
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
