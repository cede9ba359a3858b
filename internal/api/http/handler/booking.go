package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
)

type BookingHandler struct {
	svc booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func mapBookingError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrCancellationNotFound),
		errors.Is(err, pricing.ErrQuoteNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrJobRunning):
		return conflict(c, err.Error())
	case errors.Is(err, booking.ErrAlreadyProcessed),
		errors.Is(err, booking.ErrBookingCancelled),
		errors.Is(err, booking.ErrInvalidAmount):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

type bookingIDBody struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

// ---------------------------------------------------------------------------
// Public
// ---------------------------------------------------------------------------

// POST /bookings
// Bookings made with a partner key are attributed to that partner.
func (h *BookingHandler) Create(c fiber.Ctx) error {
	var body struct {
		QuoteNumber   string `json:"quote_number" validate:"required"`
		CustomerName  string `json:"customer_name" validate:"required,max=200"`
		CustomerEmail string `json:"customer_email" validate:"required,email"`
		CustomerPhone string `json:"customer_phone" validate:"max=40"`
	}
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}

	req := booking.CreateBookingRequest{
		QuoteNumber:   body.QuoteNumber,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
	}
	if p := middleware.PrincipalFromFiber(c); p.IsPartner() {
		id, err := uuid.Parse(p.PartnerID)
		if err != nil {
			return internalError(c, err)
		}
		req.PartnerID = &id
	}

	b, err := h.svc.CreateBooking(c.Context(), req)
	if err != nil {
		return mapBookingError(c, err)
	}
	return created(c, fiber.Map{"booking": b})
}

// POST /request-cancellation
func (h *BookingHandler) RequestCancellation(c fiber.Ctx) error {
	var body struct {
		Token  string  `json:"token" validate:"required"`
		Reason *string `json:"reason" validate:"omitempty,max=2000"`
	}
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.svc.RequestCancellation(c.Context(), body.Token, body.Reason)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(res)
}

// ---------------------------------------------------------------------------
// Lifecycle (API key)
// ---------------------------------------------------------------------------

// POST /handle-new-booking
func (h *BookingHandler) HandleNew(c fiber.Ctx) error {
	var body bookingIDBody
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.svc.HandleNewBooking(c.Context(), uuid.MustParse(body.BookingID))
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(res)
}

// POST /handle-payment-confirmation
func (h *BookingHandler) ConfirmPayment(c fiber.Ctx) error {
	var body struct {
		BookingID       string          `json:"booking_id" validate:"required,uuid"`
		PaymentMethod   string          `json:"payment_method" validate:"max=50"`
		AmountPaid      decimal.Decimal `json:"amount_paid"`
		StripePaymentID *string         `json:"stripe_payment_id" validate:"omitempty,max=255"`
	}
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.svc.ConfirmPayment(c.Context(), booking.PaymentConfirmation{
		BookingID:       uuid.MustParse(body.BookingID),
		PaymentMethod:   body.PaymentMethod,
		AmountPaid:      body.AmountPaid,
		StripePaymentID: body.StripePaymentID,
	})
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(res)
}

// POST /complete-booking
func (h *BookingHandler) Complete(c fiber.Ctx) error {
	var body bookingIDBody
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.svc.CompleteBooking(c.Context(), uuid.MustParse(body.BookingID))
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(res)
}
