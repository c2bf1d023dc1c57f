package domain

import (
	"context"
	"errors"
	"fmt"
)

// Guard errors mark calls that were rejected before any request was issued.
// They leave session state untouched and are never shown to the user.
var (
	// ErrTopicActive indicates the requested topic is already the active topic.
	ErrTopicActive = errors.New("topic already active")

	// ErrSelectionPending indicates the requested topic is already being initialised.
	ErrSelectionPending = errors.New("topic selection already in progress")

	// ErrNoActiveTopic indicates a question was sent before any topic was ready.
	ErrNoActiveTopic = errors.New("no active topic")

	// ErrEmptyQuestion indicates the question was empty after trimming.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrSendInProgress indicates a previous question is still awaiting its answer.
	ErrSendInProgress = errors.New("send in progress")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrCancelled indicates a request was intentionally superseded or aborted.
// It is distinguished from genuine failures and never surfaces to the user.
var ErrCancelled = errors.New("request cancelled")

// NetworkError is a transport-level failure: the request never produced
// an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is returned when the backend answers with a non-success status.
// Message carries the server-supplied error text, if the body had one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// ApplicationError is returned when the backend answers with a success
// status but reports a failure in the body (an error field or success=false).
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// IsCancelled reports whether err represents an intentional cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsSilent reports whether err must be filtered out instead of being shown
// as a system message: cancellations and guard rejections.
func IsSilent(err error) bool {
	if err == nil || IsCancelled(err) {
		return true
	}
	switch {
	case errors.Is(err, ErrTopicActive),
		errors.Is(err, ErrSelectionPending),
		errors.Is(err, ErrNoActiveTopic),
		errors.Is(err, ErrEmptyQuestion),
		errors.Is(err, ErrSendInProgress):
		return true
	}
	return false
}

// UserMessage converts err into the single line shown to the user.
// Server-supplied text is preferred; fallback is used otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("HTTP error! status: %d", httpErr.StatusCode)
	}

	return fallback
}
