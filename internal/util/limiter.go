// # internal/util/limiter.go
package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RescanLimiter caps how often watch mode may trigger a full rebuild.
// Configured in rescans per minute; burst 1, so back-to-back change storms
// collapse into sequential rescans instead of piling up.
type RescanLimiter struct {
	inner *rate.Limiter
}

func NewRescanLimiter(perMinute float64) *RescanLimiter {
	return &RescanLimiter{
		inner: rate.NewLimiter(rate.Limit(perMinute/60.0), 1),
	}
}

// Allow reports whether a rescan may start now.
func (l *RescanLimiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until a rescan is allowed.
func (l *RescanLimiter) Wait(ctx context.Context) error {
	return l.inner.WaitN(ctx, 1)
}
