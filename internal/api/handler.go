// Package api provides HTTP handlers for the NicheProof API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicheproof/nicheproof/internal/generate"
	"github.com/nicheproof/nicheproof/internal/pass"
	"github.com/nicheproof/nicheproof/internal/store"
)

// CheckoutProvider opens a hosted purchase flow and returns its URL.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context) (string, error)
}

// Handler wires the generation, payment, and pass components to HTTP.
type Handler struct {
	gen      generate.Generator
	checker  pass.Checker
	payments CheckoutProvider
	ledger   store.Ledger
}

// NewHandler creates a new Handler with its dependencies.
func NewHandler(gen generate.Generator, checker pass.Checker, payments CheckoutProvider, ledger store.Ledger) *Handler {
	return &Handler{
		gen:      gen,
		checker:  checker,
		payments: payments,
		ledger:   ledger,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate/instant", h.GenerateInstant)
		r.Post("/generate/deep", h.GenerateDeep)
		r.Post("/checkout", h.CreateCheckout)
		r.Get("/checkout/session", h.VerifySession)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Denied writes the 402 response for a pass denial.
func Denied(w http.ResponseWriter, reason pass.Reason) {
	JSON(w, http.StatusPaymentRequired, map[string]string{
		"error":  "payment required",
		"reason": string(reason),
	})
}
