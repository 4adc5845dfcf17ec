package client

import (
	"context"
	"fmt"
	"time"

	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// WithRetry runs operation until it succeeds, fails with a non transient error or
// runs out of attempts. Delays grow exponentially up to MaxDelay.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}

	delay := opts.InitialDelay
	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		if !financeErrors.IsTransientError(err) {
			return err
		}
		if attempt == opts.MaxAttempts {
			return fmt.Errorf("giving up after %d attempts: %w", opts.MaxAttempts, err)
		}

		log := logger.FromContext(ctx)
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", opts.MaxAttempts).
			Dur("delay", delay).
			Msg("Operation failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * opts.Multiplier)
			if delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}
	}
}
