package services

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

var (
	// ErrNoSession is returned when a plain answer arrives for an identity with no order in progress
	ErrNoSession = errors.New("no active session")

	// ErrValidationRejected marks an answer that failed its field rule
	ErrValidationRejected = errors.New("validation rejected")

	// ErrSinkAppendFailed marks a completed order that could not be appended to the store
	ErrSinkAppendFailed = errors.New("sink append failed")
)

// ValidationError carries the field and the user-facing reason used as the re-prompt
type ValidationError struct {
	Field  models.Field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidationRejected) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationRejected
}

// Kind classifies an error for logs and HTTP status mapping
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationRejected):
		return "validation_rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrSinkAppendFailed):
		return "sink_failed"
	case errors.Is(err, ErrNoSession):
		return "no_session"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
