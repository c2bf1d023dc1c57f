package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrTopicActive", ErrTopicActive},
		{"ErrSelectionPending", ErrSelectionPending},
		{"ErrNoActiveTopic", ErrNoActiveTopic},
		{"ErrEmptyQuestion", ErrEmptyQuestion},
		{"ErrSendInProgress", ErrSendInProgress},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrCancelled", ErrCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestNetworkError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &NetworkError{Op: "get topics", Err: inner}

	assert.Equal(t, "get topics: network error: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestHTTPError(t *testing.T) {
	assert.Equal(t, "HTTP error! status: 500", (&HTTPError{StatusCode: 500}).Error())
	assert.Equal(t,
		"HTTP error! status: 404: Topic directory not found",
		(&HTTPError{StatusCode: 404, Message: "Topic directory not found"}).Error(),
	)
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(ErrCancelled))
	assert.True(t, IsCancelled(fmt.Errorf("select: %w", ErrCancelled)))
	assert.True(t, IsCancelled(context.Canceled))
	assert.True(t, IsCancelled(&NetworkError{Op: "x", Err: context.Canceled}))
	assert.False(t, IsCancelled(errors.New("boom")))
	assert.False(t, IsCancelled(context.DeadlineExceeded))
}

func TestIsSilent(t *testing.T) {
	silent := []error{
		nil,
		ErrCancelled,
		ErrTopicActive,
		ErrSelectionPending,
		ErrNoActiveTopic,
		ErrEmptyQuestion,
		fmt.Errorf("send: %w", ErrSendInProgress),
	}
	for _, err := range silent {
		assert.True(t, IsSilent(err), "%v should be silent", err)
	}

	loud := []error{
		&HTTPError{StatusCode: 500},
		&ApplicationError{Message: "model unavailable"},
		&NetworkError{Op: "ask", Err: errors.New("reset")},
	}
	for _, err := range loud {
		assert.False(t, IsSilent(err), "%v should be shown", err)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"application error", &ApplicationError{Message: "model unavailable"}, "fb", "model unavailable"},
		{"wrapped application error", fmt.Errorf("ask: %w", &ApplicationError{Message: "bad"}), "fb", "bad"},
		{"empty application error", &ApplicationError{}, "fb", "fb"},
		{"http error with text", &HTTPError{StatusCode: 404, Message: "Topic directory not found"}, "fb", "Topic directory not found"},
		{"http error without text", &HTTPError{StatusCode: 502}, "fb", "HTTP error! status: 502"},
		{"network error", &NetworkError{Op: "ask", Err: errors.New("reset")}, "Failed to load topics", "Failed to load topics"},
		{"nil", nil, "fb", "fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}
