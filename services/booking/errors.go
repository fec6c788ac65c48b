package booking

import (
	"errors"
	"fmt"
)

// BookingError is a typed terminal outcome of a booking attempt.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for terminal booking outcomes.
const (
	CodeConflict     = "conflict"
	CodeInvalidSlot  = "invalidSlot"
	CodeInvalidInput = "invalidInput"
)

// NewConflictError reports that the requested interval is no longer free. The
// attempt is terminal; the caller should re-fetch slots and retry with a fresh
// choice. The server never silently rebooks a different slot.
func NewConflictError(msg string) error {
	return &BookingError{Code: CodeConflict, Message: msg}
}

// NewInvalidSlotError reports that the requested interval does not align with
// any currently offered slot.
func NewInvalidSlotError(msg string) error {
	return &BookingError{Code: CodeInvalidSlot, Message: msg}
}

// NewInvalidInputError reports malformed guest or request fields.
func NewInvalidInputError(msg string) error {
	return &BookingError{Code: CodeInvalidInput, Message: msg}
}

// IsCode reports whether err is (or wraps) a BookingError with the given code.
func IsCode(err error, code string) bool {
	var be *BookingError
	return errors.As(err, &be) && be.Code == code
}
