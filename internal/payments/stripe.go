// Package payments wraps the Stripe Checkout API: opening a purchase
// flow for the fixed product and looking sessions back up for pass
// verification.
package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/nicheproof/nicheproof/internal/pass"
)

// StripeClient talks to Stripe for checkout creation and session lookup.
// It implements pass.Source.
type StripeClient struct {
	api        *client.API
	priceID    string
	successURL string
	cancelURL  string
}

// NewStripeClient creates a Stripe client bound to the configured price.
// The success URL round-trips the new session id back to the SPA via the
// {CHECKOUT_SESSION_ID} template; the cancel URL returns to the entry
// point. Timeout bounds every outbound Stripe call.
func NewStripeClient(secretKey, priceID, baseURL string, timeout time.Duration) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(&http.Client{Timeout: timeout}))

	base := strings.TrimRight(baseURL, "/")
	return &StripeClient{
		api:        api,
		priceID:    priceID,
		successURL: base + "/?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  base + "/",
	}
}

// CreateCheckoutSession opens a hosted checkout flow for the fixed
// price and returns the redirect URL.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(c.priceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if sess.URL == "" {
		return "", errors.New("checkout session has no redirect url")
	}
	return sess.URL, nil
}

// LookupSession fetches a checkout session with its line items and maps
// it into the provider-agnostic snapshot the verifier consumes.
func (c *StripeClient) LookupSession(ctx context.Context, sessionID string) (pass.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return pass.Session{}, fmt.Errorf("lookup checkout session %s: %w", sessionID, err)
	}

	out := pass.Session{
		ID:   sess.ID,
		Paid: sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if sess.Created > 0 {
		out.Created = time.Unix(sess.Created, 0)
	}
	if sess.LineItems != nil {
		for _, item := range sess.LineItems.Data {
			if item.Price != nil {
				out.PriceIDs = append(out.PriceIDs, item.Price.ID)
			}
		}
	}
	return out, nil
}
