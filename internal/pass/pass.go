// Package pass implements the payment-derived access pass: the decision
// of whether the bearer of an opaque Checkout session id may invoke the
// paid generation endpoint right now.
//
// The decision logic lives in Evaluate, a pure function of
// (session snapshot, clock), so it can be unit-tested without any
// network plumbing. Verifier wraps it with the provider lookup and a
// best-effort memo.
package pass

import "time"

// Reason identifies why a pass was denied.
type Reason string

const (
	ReasonMissingIdentifier    Reason = "missing_identifier"
	ReasonLookupFailed         Reason = "lookup_failed"
	ReasonNotPaid              Reason = "not_paid"
	ReasonWrongItem            Reason = "wrong_item"
	ReasonTimestampUnavailable Reason = "timestamp_unavailable"
	ReasonExpired              Reason = "expired"
)

// Session is the provider-derived snapshot of a single checkout
// session. It is re-fetched from the payment provider on every check;
// nothing in it originates from the client beyond the opaque id.
type Session struct {
	ID       string
	Paid     bool
	Created  time.Time
	PriceIDs []string
}

// Decision is the outcome of a pass check: either granted with an
// expiry, or denied with a reason.
type Decision struct {
	Granted   bool
	Reason    Reason
	ExpiresAt time.Time
	Remaining time.Duration
}

// Evaluate decides whether a session grants access at the given
// instant. Pure: no I/O, no clock reads.
//
// The pass expires exactly at Created + duration; a check arriving at
// precisely that instant is denied. Any ambiguity (unpaid status,
// price mismatch, missing creation timestamp) resolves to denial.
func Evaluate(sess Session, priceID string, duration time.Duration, now time.Time) Decision {
	if !sess.Paid {
		return Decision{Reason: ReasonNotPaid}
	}
	if priceID != "" && !hasPrice(sess.PriceIDs, priceID) {
		return Decision{Reason: ReasonWrongItem}
	}
	if sess.Created.IsZero() {
		return Decision{Reason: ReasonTimestampUnavailable}
	}

	expiresAt := sess.Created.Add(duration)
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return Decision{Reason: ReasonExpired, ExpiresAt: expiresAt}
	}

	return Decision{Granted: true, ExpiresAt: expiresAt, Remaining: remaining}
}

func hasPrice(priceIDs []string, want string) bool {
	for _, id := range priceIDs {
		if id == want {
			return true
		}
	}
	return false
}
