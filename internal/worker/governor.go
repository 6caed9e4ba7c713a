// Package worker provides the shared rate governor and the concurrency
// primitives used by batch verification.
package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Governor serializes access to one over-sensitive upstream provider. It
// enforces a minimum inter-request interval process-wide: requests queue up
// but never execute concurrently against that provider, regardless of which
// finding or caller triggered them.
type Governor struct {
	limiter *rate.Limiter
}

// NewGovernor creates a governor with the given minimum spacing
func NewGovernor(minInterval time.Duration) *Governor {
	if minInterval <= 0 {
		minInterval = 5 * time.Second
	}
	return &Governor{
		// Burst 1 means exactly one dispatch per interval
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Wait blocks until the next request slot opens or ctx is done
func (g *Governor) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Allow reports whether a request could dispatch right now, consuming the
// slot if so
func (g *Governor) Allow() bool {
	return g.limiter.Allow()
}
