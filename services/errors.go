package services

import (
	"errors"
	"fmt"
)

var ErrBookingNotFound = errors.New("booking_not_found")

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a failure of the durable store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// DeliveryError is a failed outbound notification. It is logged, never
// returned as the failure of a booking operation.
type DeliveryError struct {
	Channel   string
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery to %s failed: %v", e.Channel, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

var ErrInvalidOTP = errors.New("invalid_otp")
