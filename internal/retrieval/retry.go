package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// retryPolicy retries transient endpoint failures (429 and 5xx) with
// exponential backoff.
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
}

var defaultRetry = retryPolicy{attempts: 3, baseDelay: 500 * time.Millisecond, maxDelay: 5 * time.Second}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	attempts := max(1, p.attempts)
	backoff := p.baseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !retryable(err) || attempt == attempts {
			return err
		}
		sleep := backoff
		if p.maxDelay > 0 && sleep > p.maxDelay {
			sleep = p.maxDelay
		}
		slog.Debug("retrying embedding request", "attempt", attempt, "sleep", sleep, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	return err
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return false
}
