package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/internal/service/commission"
)

// JobHandler exposes the scheduled jobs to an external scheduler.
type JobHandler struct {
	commissions commission.Service
	bookings    booking.Service
	now         func() time.Time
}

func NewJobHandler(commissions commission.Service, bookings booking.Service) *JobHandler {
	return &JobHandler{commissions: commissions, bookings: bookings, now: time.Now}
}

// POST /jobs/calculate-partner-commissions?date=YYYY-MM-DD
// Without a date the job settles yesterday.
func (h *JobHandler) CalculatePartnerCommissions(c fiber.Ctx) error {
	var day time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		day = d
	}

	res, err := h.commissions.RunSettlement(c.Context(), day)
	if err != nil {
		if errors.Is(err, commission.ErrJobRunning) {
			return conflict(c, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(res)
}

// POST /jobs/handle-no-shows
func (h *JobHandler) HandleNoShows(c fiber.Ctx) error {
	res, err := h.bookings.SweepNoShows(c.Context(), h.now())
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(res)
}
