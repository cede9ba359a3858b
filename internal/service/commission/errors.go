package commission

import "errors"

var (
	ErrJobRunning      = errors.New("commission settlement is already running")
	ErrPartnerNotFound = errors.New("partner not found")
	ErrNoPartner       = errors.New("booking has no partner")
	ErrInvalidTimezone = errors.New("invalid business timezone")
)
