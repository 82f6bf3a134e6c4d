package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// throttle enforces a fixed pause between the end of one call and the start
// of the next. The first call is admitted immediately.
type throttle struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// newThrottle creates a throttle. A non-positive interval never blocks.
func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &throttle{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the pause since the last Done has elapsed or ctx ends.
func (t *throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Done marks the end of a call; the next Wait blocks for a full interval
// from now.
func (t *throttle) Done() {
	if t.interval <= 0 {
		return
	}
	t.limiter = rate.NewLimiter(rate.Every(t.interval), 1)
	t.limiter.Allow()
}
