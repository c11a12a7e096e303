package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Run("server errors and rate limits are transient", func(t *testing.T) {
		assert.True(t, IsTransient(&StatusError{Code: 500}))
		assert.True(t, IsTransient(&StatusError{Code: 503}))
		assert.True(t, IsTransient(&StatusError{Code: 429}))
	})

	t.Run("client errors are permanent", func(t *testing.T) {
		assert.False(t, IsTransient(&StatusError{Code: 400}))
		assert.False(t, IsTransient(&StatusError{Code: 401}))
		assert.False(t, IsTransient(&StatusError{Code: 404}))
	})

	t.Run("wrapped status errors are unwrapped", func(t *testing.T) {
		wrapped := errors.Join(errors.New("fetch failed"), &StatusError{Code: 502})
		assert.True(t, IsTransient(wrapped))
	})

	t.Run("network-flavored transport errors are transient", func(t *testing.T) {
		assert.True(t, IsTransient(errors.New("dial tcp: connection refused")))
		assert.True(t, IsTransient(errors.New("context deadline exceeded (Client.Timeout)")))
		assert.True(t, IsTransient(errors.New("temporary network glitch")))
	})

	t.Run("other errors are permanent", func(t *testing.T) {
		assert.False(t, IsTransient(nil))
		assert.False(t, IsTransient(errors.New("invalid payload")))
	})
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("returns on first success", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), 2, time.Millisecond, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures then succeeds", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), 2, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return &StatusError{Code: 503}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after maxRetries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), 2, time.Millisecond, func() error {
			calls++
			return &StatusError{Code: 500}
		})
		assert.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors propagate immediately", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), 5, time.Millisecond, func() error {
			calls++
			return &StatusError{Code: 404}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the backoff wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithBackoff(ctx, 3, time.Hour, func() error {
			return &StatusError{Code: 500}
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
