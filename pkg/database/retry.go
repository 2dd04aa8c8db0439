package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBaseWait = time.Second
	retryJitterFraction  = 0.25
)

// retryBackoff doubles defaultRetryBaseWait per attempt (1s, 2s, 4s) and
// spreads the result by up to retryJitterFraction either way.
func retryBackoff(attempt int) time.Duration {
	base := defaultRetryBaseWait << max(attempt, 0)
	spread := retryJitterFraction * (2*rand.Float64() - 1) // #nosec G404 -- jitter only
	return base + time.Duration(float64(base)*spread)
}

// ConnectWithRetry calls connect until it succeeds, giving up after
// defaultRetryAttempts tries or when ctx ends. The storage backends and the
// broker ping share it. A nil logger keeps retries quiet.
func ConnectWithRetry(ctx context.Context, name string, logger *slog.Logger, connect func(context.Context) error) error {
	err := connect(ctx)
	for attempt := 1; err != nil && attempt < defaultRetryAttempts; attempt++ {
		wait := retryBackoff(attempt - 1)
		if logger != nil {
			logger.Warn("dependency unavailable, retrying",
				slog.String("dependency", name),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", defaultRetryAttempts),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("connect to %s: gave up waiting: %w", name, ctx.Err())
		case <-timer.C:
		}
		err = connect(ctx)
	}
	if err != nil {
		return fmt.Errorf("connect to %s after %d attempts: %w", name, defaultRetryAttempts, err)
	}
	return nil
}
