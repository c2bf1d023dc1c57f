package cli

import (
	"errors"

	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// userError carries the message shown to the user while keeping the
// underlying error for errors.Is and errors.As.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// userFacing converts a service error into the text a user should see.
func userFacing(err error, fallback string) error {
	if err == nil {
		return nil
	}
	logger.Debug("%s: %v", fallback, err)

	var msg string
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		msg = "question is empty"
	case errors.Is(err, domain.ErrNoActiveTopic):
		msg = "no topic selected"
	case errors.Is(err, domain.ErrSendInProgress):
		msg = "a previous question is still being answered"
	case domain.IsCancelled(err):
		msg = "cancelled"
	case errors.Is(err, domain.ErrInvalidInput):
		msg = err.Error()
	default:
		msg = domain.UserMessage(err, fallback)
	}
	return &userError{msg: msg, err: err}
}
