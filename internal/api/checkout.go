package api

import (
	"log/slog"
	"net/http"
)

// CreateCheckout asks the payment provider to open a purchase flow for
// the fixed product and returns the hosted checkout URL. The client
// supplies nothing; the product is fixed server-side.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	url, err := h.payments.CreateCheckoutSession(r.Context())
	if err != nil {
		slog.Error("Checkout session creation failed", "error", err)
		Error(w, http.StatusInternalServerError, "could not start checkout")
		return
	}

	h.recordCheckout(r, "", "created")
	JSON(w, http.StatusOK, map[string]string{"url": url})
}

// VerifySession reports the pass state for a session id. The SPA polls
// this after the checkout redirect and before enabling the paid call.
// Denials are 200s with paid:false; only the paid generation endpoint
// speaks 402.
func (h *Handler) VerifySession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		Error(w, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	decision := h.checker.Check(r.Context(), sessionID)
	if !decision.Granted {
		h.recordCheckout(r, sessionID, "denied")
		JSON(w, http.StatusOK, map[string]interface{}{
			"paid":   false,
			"reason": string(decision.Reason),
		})
		return
	}

	h.recordCheckout(r, sessionID, "verified")
	JSON(w, http.StatusOK, map[string]interface{}{
		"paid":             true,
		"passExpiresAt":    decision.ExpiresAt.UnixMilli(),
		"secondsRemaining": int64(decision.Remaining.Seconds()),
	})
}

func (h *Handler) recordCheckout(r *http.Request, sessionID, event string) {
	if h.ledger == nil {
		return
	}
	if err := h.ledger.RecordCheckout(r.Context(), sessionID, event); err != nil {
		slog.Warn("Failed to record checkout event", "event", event, "error", err)
	}
}
