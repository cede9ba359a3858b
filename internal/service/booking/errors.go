package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrCancellationNotFound = errors.New("invalid or unknown cancellation token")
	ErrAlreadyProcessed     = errors.New("cancellation request already processed")
	ErrBookingCancelled     = errors.New("booking is already cancelled")
	ErrInvalidAmount        = errors.New("amount_paid must not be negative")
	ErrJobRunning           = errors.New("no-show sweep is already running")
)
