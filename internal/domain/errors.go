package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lifecycle state machine. Handlers map these onto
// HTTP status codes in internal/http/response.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("a registration with this email already exists; use the update link instead")
	ErrAlreadyCanceled = errors.New("registration is already canceled")
	ErrCharacterTaken  = errors.New("guest already has a character assigned")
	ErrUnauthorized    = errors.New("unauthorized")
)

// ValidationError rejects malformed input before any mutation happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DeliveryError wraps a provider failure. It is recorded in the email event
// log and swallowed; it never fails the primary mutation.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("delivery failed: %s", e.Reason)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
