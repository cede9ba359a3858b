package partner

import "errors"

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvalidRange    = errors.New("invalid date range")
)
