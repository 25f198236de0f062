package signal

import (
	"context"
	"time"
)

// ReadWithRetry reads from the source, retrying transient failures with
// exponential backoff.
func ReadWithRetry(ctx context.Context, src Source, maxRetries int, baseDelay time.Duration) (uint64, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		value, err := src.Read(ctx)
		if err == nil {
			return value, nil
		}
		if attempt >= maxRetries {
			return 0, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
