package provider

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

const maxJitter = 100 * time.Millisecond

var transientSubstrings = []string{"network", "timeout", "connection"}

// IsTransient classifies an error as retryable: HTTP 5xx or 429 from the
// provider, or transport errors whose message mentions a network condition.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == 429
	}
	msg := strings.ToLower(err.Error())
	for _, s := range transientSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// RetryWithBackoff runs fn, retrying transient failures up to maxRetries
// times with exponential backoff (baseDelay * 2^attempt) plus up to 100ms of
// jitter. Non-transient errors propagate immediately.
func RetryWithBackoff(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= maxRetries || !IsTransient(err) {
			return err
		}

		delay := baseDelay*(1<<attempt) + time.Duration(rand.Int63n(int64(maxJitter)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
