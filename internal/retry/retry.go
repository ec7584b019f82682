// Package retry re-runs an operation whose failure may be transient, such as
// a submission file that could not be read while an upload was still being
// written.
package retry

import (
	"context"
	"fmt"
	"time"
)

// DefaultBackoff is the wait before the first retry.
const DefaultBackoff = 500 * time.Millisecond

// maxBackoff caps the doubling backoff.
const maxBackoff = 10 * time.Second

// RetryState tracks attempts for one operation.
type RetryState struct {
	Label       string
	Count       int
	LastAttempt time.Time
	MaxRetries  int
}

// NewState returns a fresh state allowing maxRetries retries.
func NewState(label string, maxRetries int) *RetryState {
	return &RetryState{Label: label, MaxRetries: maxRetries}
}

// CanRetry returns true if more retries are allowed
func (r *RetryState) CanRetry() bool {
	return r.Count < r.MaxRetries
}

// Increment increments the retry count and updates the timestamp
// Returns an error if max retries are exceeded
func (r *RetryState) Increment() error {
	if !r.CanRetry() {
		return &RetryExhaustedError{
			Label:      r.Label,
			Count:      r.Count,
			MaxRetries: r.MaxRetries,
		}
	}
	r.Count++
	r.LastAttempt = time.Now()
	return nil
}

// Reset resets the retry count and clears the timestamp
func (r *RetryState) Reset() {
	r.Count = 0
	r.LastAttempt = time.Time{}
}

// Backoff returns the wait before retry number attempt (1-based): base,
// then doubled each time, capped at ten seconds.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = DefaultBackoff
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Do calls fn until it reports that no retry is needed. fn receives the
// 0-based attempt number. Do returns a *RetryExhaustedError when fn still
// wants a retry after MaxRetries retries, or ctx.Err() if ctx is cancelled
// while waiting.
func Do(ctx context.Context, state *RetryState, base time.Duration, fn func(attempt int) (retryable bool)) error {
	for attempt := 0; ; attempt++ {
		if !fn(attempt) {
			return nil
		}
		if err := state.Increment(); err != nil {
			return err
		}

		timer := time.NewTimer(Backoff(base, state.Count))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryExhaustedError indicates retry limit has been reached
type RetryExhaustedError struct {
	Label      string
	Count      int
	MaxRetries int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry limit exhausted for %s (%d/%d retries)",
		e.Label, e.Count, e.MaxRetries)
}
