package postgres

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/platform/config"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// retryPolicy holds the values extracted from config.RetryConfig.
type retryPolicy struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		maxAttempts:     max(cfg.MaxAttempts, 1),
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
		multiplier:      cfg.Multiplier,
	}
}

// withRetry runs fn until it succeeds, fails with a non-transient error, or
// the attempts run out. A unit of work is always retried from its start.
func (s *Store) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := range s.retry.maxAttempts {
		if attempt > 0 {
			if err := s.waitForRetry(ctx, op, attempt, lastErr); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if !isTransient(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", op, s.retry.maxAttempts, lastErr)
}

// waitForRetry logs the retry at WARN level and waits for the backoff delay
// or context cancellation.
func (s *Store) waitForRetry(ctx context.Context, op string, attempt int, lastErr error) error {
	delay := backoff(attempt, s.retry)

	logging.FromContext(ctx).WarnContext(ctx, "retrying store operation",
		slog.String("operation", op),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", s.retry.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// backoff calculates the delay for a given retry attempt using exponential
// backoff with ±25% jitter. The attempt parameter is 1-indexed (attempt 1 is
// the first retry).
func backoff(attempt int, p retryPolicy) time.Duration {
	delay := float64(p.initialInterval) * math.Pow(p.multiplier, float64(attempt-1))

	if delay > float64(p.maxInterval) {
		delay = float64(p.maxInterval)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}
