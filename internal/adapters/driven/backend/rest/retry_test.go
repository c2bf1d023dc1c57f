package rest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", &domain.NetworkError{Op: "ask", Err: errors.New("reset")}, true},
		{"wrapped network", fmt.Errorf("x: %w", &domain.NetworkError{Op: "ask", Err: errors.New("reset")}), true},
		{"408", &domain.HTTPError{StatusCode: 408}, true},
		{"429", &domain.HTTPError{StatusCode: 429}, true},
		{"500", &domain.HTTPError{StatusCode: 500}, true},
		{"503", &domain.HTTPError{StatusCode: 503}, true},
		{"400", &domain.HTTPError{StatusCode: 400}, false},
		{"404", &domain.HTTPError{StatusCode: 404}, false},
		{"application", &domain.ApplicationError{Message: "bad"}, false},
		{"cancelled", domain.ErrCancelled, false},
		{"context cancelled", context.Canceled, false},
		{"plain", errors.New("decode"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestRetryPolicy_Do_SucceedsAfterTransient(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}
	calls := 0

	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return &domain.HTTPError{StatusCode: 503}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_Do_StopsAtMaxAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}
	calls := 0
	want := &domain.NetworkError{Op: "op", Err: errors.New("refused")}

	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return want
	})

	assert.Same(t, want, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_Do_DoesNotRetryPermanent(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}
	calls := 0

	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return &domain.ApplicationError{Message: "bad"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_Do_LinearBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: 20 * time.Millisecond}
	var stamps []time.Time

	_ = p.Do(context.Background(), "op", func(context.Context) error {
		stamps = append(stamps, time.Now())
		return &domain.HTTPError{StatusCode: 500}
	})

	if assert.Len(t, stamps, 3) {
		assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
		assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
	}
}

func TestRetryPolicy_Do_CancelDuringBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: 10 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Do(ctx, "op", func(context.Context) error {
		calls++
		return &domain.HTTPError{StatusCode: 500}
	})

	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRetryPolicy_Do_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0

	_ = RetryPolicy{}.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return &domain.HTTPError{StatusCode: 500}
	})

	assert.Equal(t, 1, calls)
}
