package retry

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff doubles (by default) the delay after every attempt,
// capped at a maximum and spread by a random jitter.
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	maxAttempts  int     // -1 = unlimited, 0 = no retries
	jitter       float64 // 0.1 = +/- 10%
	random       func() float64
}

// BackoffOption configures an ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.maxDelay = d }
}

// WithMultiplier sets the growth factor of the delay.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithJitter sets the jitter factor in [0, 1].
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithRandom sets the source of jitter, a function returning values in [0, 1).
func WithRandom(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.random = f }
}

// NewExponentialBackoff creates a backoff allowing maxAttempts retries,
// starting at 100ms, doubling up to 30s with 10% jitter unless configured otherwise.
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   2,
		maxAttempts:  maxAttempts,
		jitter:       0.1,
		random:       rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns the delay before retry number attempt (0-based).
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt))
	delay = math.Min(delay, float64(b.maxDelay))

	if b.jitter > 0 {
		// Map [0, 1) onto [-jitter, +jitter).
		delay *= 1 + b.jitter*(b.random()*2-1)
	}
	return time.Duration(delay)
}

// MaxAttempts returns the number of retries allowed.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}
