// Package errors defines sentinel errors for the bookings domain.
package errors

import "errors"

var (
	// ErrNotFound is returned when a booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID is returned when a booking ID is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid booking ID")

	// ErrRequestNotFound is returned when a cancellation request does not exist.
	ErrRequestNotFound = errors.New("cancellation request not found")

	// ErrIllegalTransition is returned when a status change is not permitted
	// by the booking state machine.
	ErrIllegalTransition = errors.New("illegal status transition")
)
