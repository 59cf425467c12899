package retry

import (
	"context"
	"time"
)

type Operation func(ctx context.Context) error
type IsRetryableError func(error) bool

// RetryConfig - MaxRetries повторов поверх первой попытки; i-й повтор ждёт Delays[i]
// (последняя задержка используется для всех дальнейших повторов)
type RetryConfig struct {
	MaxRetries    int
	Delays        []time.Duration
	IsRetryableFn IsRetryableError
	OnRetry       func(attempt int, err error)
}

var DefaultDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

func Do(ctx context.Context, cfg RetryConfig, op Operation) error {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	if cfg.Delays == nil {
		cfg.Delays = DefaultDelays
	}

	if cfg.IsRetryableFn == nil {
		cfg.IsRetryableFn = func(error) bool { return false }
	}

	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, lastErr)
			}

			select {
			case <-time.After(delayFor(cfg.Delays, attempt-1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		if !cfg.IsRetryableFn(err) {
			return err
		}

		lastErr = err
	}

	return lastErr
}

func delayFor(delays []time.Duration, i int) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	if i >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[i]
}
