package errors

import (
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")

// Booking submission validation errors. Each constraint violation is a
// distinct error so callers can attribute the rejection.
var ErrNoSlotSelected = errors.New("no slot selected")
var ErrSlotNotFound = errors.New("slot not found")
var ErrExcursionNotFound = errors.New("excursion not found")
var ErrBookingNotFound = errors.New("booking not found")
var ErrInvalidParticipants = errors.New("participant count invalid")
var ErrSlotUnavailable = errors.New("slot not open for booking")

// InsufficientSpotsError rejects a submission that asks for more spots
// than the slot has left, carrying the exact remaining count.
type InsufficientSpotsError struct {
	Remaining int
}

func (e *InsufficientSpotsError) Error() string {
	return fmt.Sprintf("insufficient spots, %d remaining", e.Remaining)
}

// IsValidation reports whether err is a locally recoverable input
// validation error rather than a repository or remote failure.
func IsValidation(err error) bool {
	var insufficient *InsufficientSpotsError
	return errors.Is(err, ErrNoSlotSelected) ||
		errors.Is(err, ErrInvalidParticipants) ||
		errors.Is(err, ErrSlotUnavailable) ||
		errors.As(err, &insufficient)
}
