package orchestrator

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy defines retry behavior for read-only tool calls. Write and
// execute calls are never retried: they are not assumed idempotent.
type RetryPolicy struct {
	MaxRetries   int           // 0 disables retries
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration // backoff cap
	Multiplier   float64       // exponential backoff multiplier
	Jitter       bool          // add 0-20% random variation to delays
}

// DefaultRetryPolicy returns the policy used when the caller provides none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   2,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// delay computes the backoff for a retry attempt (0-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter {
		d += rand.Float64() * 0.2 * d
	}
	return time.Duration(d)
}
