package pass

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Source looks up a checkout session at the payment provider.
type Source interface {
	LookupSession(ctx context.Context, sessionID string) (Session, error)
}

// Checker is the consumer-facing side of the verifier.
type Checker interface {
	Check(ctx context.Context, sessionID string) Decision
}

type memoEntry struct {
	sess      Session
	fetchedAt time.Time
}

// Verifier decides pass grants by fetching the session from its Source
// and running Evaluate against the current clock.
//
// The memo caches the looked-up session record (never the decision) for
// a short window so repeated polling does not hammer the provider.
// Expiry is recomputed from the clock on every call, so a memoized
// grant still flips to denied exactly at ExpiresAt. Lookup failures are
// never memoized. Correctness does not depend on the memo: it is wiped
// along with the process and other instances never see it.
type Verifier struct {
	src      Source
	priceID  string
	duration time.Duration
	memoTTL  time.Duration
	now      func() time.Time

	mu   sync.Mutex
	memo map[string]memoEntry
}

// NewVerifier creates a verifier for the given expected price and pass
// duration. A memoTTL of zero disables memoization.
func NewVerifier(src Source, priceID string, duration, memoTTL time.Duration) *Verifier {
	return &Verifier{
		src:      src,
		priceID:  priceID,
		duration: duration,
		memoTTL:  memoTTL,
		now:      time.Now,
		memo:     make(map[string]memoEntry),
	}
}

// Check verifies the pass for a session id right now. It fails closed:
// an empty id, a provider lookup error, or any ambiguity in the session
// record yields a denial, never a grant.
func (v *Verifier) Check(ctx context.Context, sessionID string) Decision {
	if sessionID == "" {
		return Decision{Reason: ReasonMissingIdentifier}
	}

	now := v.now()
	sess, ok := v.cached(sessionID, now)
	if !ok {
		var err error
		sess, err = v.src.LookupSession(ctx, sessionID)
		if err != nil {
			slog.Warn("Pass verification lookup failed", "session_id", sessionID, "error", err)
			return Decision{Reason: ReasonLookupFailed}
		}
		v.remember(sessionID, sess, now)
	}

	return Evaluate(sess, v.priceID, v.duration, now)
}

func (v *Verifier) cached(sessionID string, now time.Time) (Session, bool) {
	if v.memoTTL <= 0 {
		return Session{}, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.memo[sessionID]
	if !ok || now.Sub(entry.fetchedAt) >= v.memoTTL {
		delete(v.memo, sessionID)
		return Session{}, false
	}
	return entry.sess, true
}

func (v *Verifier) remember(sessionID string, sess Session, now time.Time) {
	if v.memoTTL <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.memo[sessionID] = memoEntry{sess: sess, fetchedAt: now}
}
