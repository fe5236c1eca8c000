package service

import (
	"context"
	"errors"
	"time"

	"agro-market-api/internal/repo/repo_errors"
)

// withLockRetry runs fn, retrying a bounded number of times with growing
// backoff while the repo reports row-lock contention. Anything other than
// ErrLocked passes straight through; exhausted retries become ErrBusy.
func withLockRetry(ctx context.Context, retries int, backoff time.Duration, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if !errors.Is(err, repo_errors.ErrLocked) {
			return err
		}
		if attempt >= retries {
			return ErrBusy
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(attempt+1)):
		}
	}
}
