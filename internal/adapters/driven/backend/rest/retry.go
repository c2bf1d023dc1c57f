package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// RetryPolicy retries transient failures with a linear backoff: the wait
// before attempt n+1 is Backoff*n.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff is the base delay.
	Backoff time.Duration
}

// DefaultRetryPolicy returns three attempts with a one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: domain.DefaultRetryAttempts,
		Backoff:     domain.DefaultRetryBackoff,
	}
}

// Do runs op until it succeeds, fails permanently, or attempts run out.
// The last error is returned unchanged.
func (p RetryPolicy) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil || !Retryable(err) || attempt == attempts {
			return err
		}

		delay := p.Backoff * time.Duration(attempt)
		logger.Warn("%s: attempt %d/%d failed: %v (retrying in %s)", name, attempt, attempts, err, delay)

		select {
		case <-ctx.Done():
			return domain.ErrCancelled
		case <-time.After(delay):
		}
	}
	return err
}

// Retryable reports whether err is a transient failure worth another attempt:
// transport errors and HTTP 408, 429 and 5xx.
func Retryable(err error) bool {
	if err == nil || domain.IsCancelled(err) {
		return false
	}

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusRequestTimeout,
			httpErr.StatusCode == http.StatusTooManyRequests,
			httpErr.StatusCode >= http.StatusInternalServerError:
			return true
		}
	}

	return false
}
