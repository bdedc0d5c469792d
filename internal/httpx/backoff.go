package httpx

import (
	"math/rand"
	"time"
)

// Backoff computes retry delays: exponential growth from BaseDelay capped at
// MaxDelay, spread by proportional jitter so clients retrying against the
// same daemon do not fall into lockstep.
type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64
}

// NewBackoff returns a Backoff, substituting defaults for zero or negative
// parameters.
func NewBackoff(base, max time.Duration, jitter float64) Backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	return Backoff{BaseDelay: base, MaxDelay: max, Jitter: jitter}
}

// ForAttempt returns the delay before retry number attempt (0-indexed).
func (b Backoff) ForAttempt(attempt int) time.Duration {
	delay := b.BaseDelay
	for i := 0; i < attempt && delay < b.MaxDelay; i++ {
		delay *= 2
	}
	if delay > b.MaxDelay {
		delay = b.MaxDelay
	}
	return b.jittered(delay)
}

// jittered scales delay by a random factor in [1-Jitter, 1+Jitter].
func (b Backoff) jittered(delay time.Duration) time.Duration {
	if b.Jitter <= 0 || delay <= 0 {
		return delay
	}
	j := min(b.Jitter, 1)
	factor := 1 + (rand.Float64()*2-1)*j
	return time.Duration(float64(delay) * factor)
}
