package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func noDelays() []time.Duration { return []time.Duration{0} }

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), RetryConfig{MaxRetries: 3, Delays: noDelays()}, func(context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	calls := 0
	var retried []int

	cfg := RetryConfig{
		MaxRetries:    3,
		Delays:        noDelays(),
		IsRetryableFn: func(err error) bool { return errors.Is(err, errTransient) },
		OnRetry:       func(attempt int, err error) { retried = append(retried, attempt) },
	}

	err := Do(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	cfg := RetryConfig{
		MaxRetries:    2,
		Delays:        noDelays(),
		IsRetryableFn: func(error) bool { return true },
	}

	err := Do(context.Background(), cfg, func(context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0

	err := Do(context.Background(), RetryConfig{MaxRetries: 5, Delays: noDelays()}, func(context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxRetries:    3,
		Delays:        []time.Duration{time.Hour},
		IsRetryableFn: func(error) bool { return true },
		OnRetry:       func(int, error) { cancel() },
	}

	err := Do(ctx, cfg, func(context.Context) error { return errTransient })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelayFor(t *testing.T) {
	delays := []time.Duration{time.Second, 3 * time.Second}

	assert.Equal(t, time.Second, delayFor(delays, 0))
	assert.Equal(t, 3*time.Second, delayFor(delays, 1))
	assert.Equal(t, 3*time.Second, delayFor(delays, 5))
	assert.Equal(t, time.Duration(0), delayFor(nil, 0))
}
