package network

import (
	"context"
	"time"
)

// maxRetryDelay caps the exponential backoff so a generous retry budget
// does not stretch into minute-long sleeps between attempts.
const maxRetryDelay = 10 * time.Second

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = nextRetryDelay(delay)
	}
}

func nextRetryDelay(delay time.Duration) time.Duration {
	delay *= 2
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
