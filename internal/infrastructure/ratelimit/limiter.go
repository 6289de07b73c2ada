package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const defaultCallsPerMinute = 20

// Limiter serializes all outbound calls across backends to a minimum
// inter-call interval of 60s / callsPerMinute. Burst is pinned to one
// so waiting callers queue in acquisition order rather than racing a
// token bucket.
type Limiter struct {
	rl *rate.Limiter
}

func New(callsPerMinute int) *Limiter {
	if callsPerMinute <= 0 {
		callsPerMinute = defaultCallsPerMinute
	}
	interval := time.Minute / time.Duration(callsPerMinute)
	return &Limiter{rl: rate.NewLimiter(rate.Every(interval), 1)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
