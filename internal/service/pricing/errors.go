package pricing

import "errors"

var (
	ErrVehicleTypeNotFound = errors.New("vehicle type not found")
	ErrNoPricingRule       = errors.New("no pricing rule found")
	ErrQuoteNotFound       = errors.New("quote not found or expired")
	ErrQuoteNumberTaken    = errors.New("quote number already issued")
	ErrInvalidTripType     = errors.New("trip_type must be one-way or round-trip")
)
