package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nicheproof/nicheproof/internal/domain"
	"github.com/nicheproof/nicheproof/internal/generate"
	"github.com/nicheproof/nicheproof/internal/store"
)

// GenerateInstant produces the free first-pass result. No gating.
func (h *Handler) GenerateInstant(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	prefs.Normalize()

	start := time.Now()
	result, err := h.gen.Instant(r.Context(), prefs)
	if err != nil {
		h.recordGeneration(r, "instant", prefs.Lane, statusForError(err), start)
		slog.Error("Instant generation failed", "lane", prefs.Lane, "error", err)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.recordGeneration(r, "instant", prefs.Lane, "ok", start)
	JSON(w, http.StatusOK, result)
}

type deepRequest struct {
	SessionID string `json:"session_id"`
	domain.Preferences
}

// GenerateDeep produces the paid decision report. The pass verifier
// gates it: any denial is a 402 with a machine-readable reason, and no
// model call is made.
func (h *Handler) GenerateDeep(w http.ResponseWriter, r *http.Request) {
	var req deepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.Preferences.Normalize()

	decision := h.checker.Check(r.Context(), req.SessionID)
	if !decision.Granted {
		h.recordGeneration(r, "deep", req.Lane, "denied", time.Now())
		slog.Info("Deep generation denied", "session_id", req.SessionID, "reason", decision.Reason)
		Denied(w, decision.Reason)
		return
	}

	start := time.Now()
	result, err := h.gen.Deep(r.Context(), req.Preferences)
	if err != nil {
		h.recordGeneration(r, "deep", req.Lane, statusForError(err), start)
		slog.Error("Deep generation failed", "lane", req.Lane, "error", err)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.recordGeneration(r, "deep", req.Lane, "ok", start)
	JSON(w, http.StatusOK, result)
}

// recordGeneration appends a ledger event. Best-effort: a ledger
// failure never affects the response.
func (h *Handler) recordGeneration(r *http.Request, kind, lane, status string, start time.Time) {
	if h.ledger == nil {
		return
	}
	err := h.ledger.RecordGeneration(r.Context(), store.GenerationEvent{
		Kind:     kind,
		Lane:     lane,
		Status:   status,
		Duration: time.Since(start),
	})
	if err != nil {
		slog.Warn("Failed to record generation event", "kind", kind, "error", err)
	}
}

func statusForError(err error) string {
	if errors.Is(err, generate.ErrMalformedOutput) {
		return "bad_output"
	}
	return "upstream_error"
}
