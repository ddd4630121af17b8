package domain

import (
	"errors"
	"fmt"
)

var ErrForbidden = errors.New("forbidden")

// ValidationError rejects malformed or out-of-range input. State is unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when a requested interval overlaps active
// bookings on the same vehicle. It carries what the caller needs to retry.
type ConflictError struct {
	Message             string    `json:"message"`
	ConflictingBookings []Booking `json:"conflictingBookings"`
	AlternativeVehicles []Vehicle `json:"alternativeVehicles"`
	NextAvailableDate   string    `json:"nextAvailableDate"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidTransitionError reports a state machine command issued from a
// state that does not permit it.
type InvalidTransitionError struct {
	Operation string
	Current   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s a booking that is %s", e.Operation, e.Current)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
