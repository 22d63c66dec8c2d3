package gemini

import "time"

// BackoffPolicy is the bounded retry schedule applied to transient
// transport failures. Attempts are numbered from zero; Delay(n) is the
// wait before re-running after the (n+1)th failed attempt, doubling each
// time with no jitter and no cap beyond the attempt bound.
type BackoffPolicy struct {
	BaseDelay   time.Duration
	MaxAttempts int
}

// DefaultBackoffPolicy waits 1s, 2s, 4s, 8s between the 5 total attempts
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		BaseDelay:   time.Second,
		MaxAttempts: 5,
	}
}

// Delay returns the backoff after the given zero-based failed attempt
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// Exhausted reports whether the given zero-based attempt was the last one
func (p BackoffPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts-1
}
