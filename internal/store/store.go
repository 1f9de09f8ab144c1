// Package store provides the operational usage ledger. The ledger
// records events only (no generated content, no authorization state);
// pass decisions never read from it.
package store

import (
	"context"
	"time"
)

// GenerationEvent is one generation request, recorded for ops.
type GenerationEvent struct {
	Kind     string // "instant" or "deep"
	Lane     string
	Status   string // "ok", "denied", "upstream_error", "bad_output"
	Duration time.Duration
}

// Ledger defines the interface for recording usage events.
type Ledger interface {
	// RecordGeneration appends a generation event.
	RecordGeneration(ctx context.Context, e GenerationEvent) error

	// RecordCheckout appends a checkout lifecycle event ("created",
	// "verified", "denied") for a session id.
	RecordCheckout(ctx context.Context, sessionID, event string) error

	// PruneBefore deletes events older than the cutoff and returns the
	// number of rows removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
