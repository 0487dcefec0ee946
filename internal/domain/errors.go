package domain

import (
	"errors"
	"fmt"
)

// ValidationError is raised before any network call; the user can correct and resubmit.
type ValidationError struct {
	Fields []string
	Msg    string
	Err    error
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("missing required fields: %v", e.Fields)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ReservationRejected carries the collaborator's message verbatim.
type ReservationRejected struct {
	Msg string
	Err error
}

func (e ReservationRejected) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "reservation rejected"
}

func (e ReservationRejected) Unwrap() error { return e.Err }

// ReservationNotFound means the collaborator accepted the request but no
// reservation identifier could be located anywhere in its response. Payment
// cannot proceed without one, so this is a loud, distinct failure.
type ReservationNotFound struct {
	Err error
}

func (e ReservationNotFound) Error() string {
	return "no reservation id in response"
}

func (e ReservationNotFound) Unwrap() error { return e.Err }

// InvalidCustomerEmail blocks payment initiation; stricter than form validation.
type InvalidCustomerEmail struct {
	Email string
}

func (e InvalidCustomerEmail) Error() string {
	if e.Email == "" {
		return "customer email is empty"
	}
	return fmt.Sprintf("invalid customer email: %s", e.Email)
}

// PaymentInitiationFailed carries the payment collaborator's message.
type PaymentInitiationFailed struct {
	Msg string
	Err error
}

func (e PaymentInitiationFailed) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "payment initiation failed"
}

func (e PaymentInitiationFailed) Unwrap() error { return e.Err }

// PaymentFailed is a terminal poll outcome; retry requires explicit re-initiation.
type PaymentFailed struct {
	Reason string
}

func (e PaymentFailed) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "payment failed"
}

// PaymentCancelled is a terminal poll outcome reported by the collaborator.
type PaymentCancelled struct {
	Reason string
}

func (e PaymentCancelled) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "payment cancelled"
}

// NotFoundError covers local lookups (workflows, staff users).
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsReservationRejected(err error) bool {
	var target ReservationRejected
	return errors.As(err, &target)
}

func IsReservationNotFound(err error) bool {
	var target ReservationNotFound
	return errors.As(err, &target)
}

func IsInvalidCustomerEmail(err error) bool {
	var target InvalidCustomerEmail
	return errors.As(err, &target)
}

func IsPaymentInitiationFailed(err error) bool {
	var target PaymentInitiationFailed
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
