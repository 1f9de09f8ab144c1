// Package domain contains core domain types for the NicheProof application.
package domain

import "strings"

const maxNotesLen = 2000

// Lanes a user can pick from. Unknown lanes fall back to DefaultLane.
const (
	DefaultLane = "services"
)

var knownLanes = map[string]bool{
	"services":  true,
	"digital":   true,
	"local":     true,
	"ecommerce": true,
	"content":   true,
}

// Preferences holds the user-submitted inputs to both generation calls.
type Preferences struct {
	Lane       string `json:"lane"`
	TimeBudget string `json:"timeBudget"`
	SkillLevel string `json:"skillLevel"`
	Notes      string `json:"notes"`
}

// Normalize coerces preferences into a safe shape: unknown lanes fall
// back to the default and free-text notes are length-capped before they
// reach a prompt.
func (p *Preferences) Normalize() {
	p.Lane = strings.ToLower(strings.TrimSpace(p.Lane))
	if !knownLanes[p.Lane] {
		p.Lane = DefaultLane
	}
	p.TimeBudget = strings.TrimSpace(p.TimeBudget)
	p.SkillLevel = strings.TrimSpace(p.SkillLevel)
	p.Notes = strings.TrimSpace(p.Notes)
	if len(p.Notes) > maxNotesLen {
		p.Notes = p.Notes[:maxNotesLen]
	}
}
