package retry

import (
	"context"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// Do runs fn until it succeeds, returns a non-retryable error, the policy's
// retries are exhausted, or ctx is done. Only errors classified with an
// immediate or backoff retry strategy are retried here; anything else,
// including next-tick errors, is returned to the caller as is.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying after transient failure",
				logfields.Attempt(attempt),
				logfields.Error(err))
			if waitErr := sleep(ctx, p.Delay(attempt)); waitErr != nil {
				return err
			}
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryInRun(err) {
			return err
		}
	}
}

func retryInRun(err error) bool {
	ce, ok := ferrors.AsClassified(err)
	if !ok {
		return false
	}
	switch ce.RetryStrategy() {
	case ferrors.RetryImmediate, ferrors.RetryBackoff:
		return true
	default:
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
