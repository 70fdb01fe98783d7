package booking

import (
	"errors"
	"fmt"
)

var (
	ErrSlotNotFound     = errors.New("slot not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrProducerNotFound = errors.New("producer not found")

	ErrSlotNotFree     = errors.New("slot is not free")
	ErrSlotTaken       = errors.New("slot already has an active booking")
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")

	ErrInvalidTransition = errors.New("invalid status for this action")
	ErrNotAllowed        = errors.New("not allowed")
)

// ValidationError marks caller-correctable bad input (step size out of
// bounds, empty generation window, and the like).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
