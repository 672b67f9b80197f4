package fetcher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests. Wait blocks until the next request may start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer allows one request immediately and then one per delay. The delay
// is measured between request starts: a response that takes longer than
// delay to arrive leaves no extra pause before the next request.
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// NoDelay is a Pacer that never waits; it only honours cancellation.
type NoDelay struct{}

// Wait returns the context error, if any.
func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
