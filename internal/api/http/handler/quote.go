package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
)

type QuoteHandler struct {
	svc pricing.Service
}

func NewQuoteHandler(svc pricing.Service) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

func mapPricingError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pricing.ErrVehicleTypeNotFound),
		errors.Is(err, pricing.ErrNoPricingRule),
		errors.Is(err, pricing.ErrQuoteNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, pricing.ErrInvalidTripType):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

type quoteBody struct {
	FromAddress    string `json:"from_address" validate:"required"`
	ToAddress      string `json:"to_address" validate:"required"`
	PickupDatetime string `json:"pickup_datetime" validate:"required"`
	VehicleType    string `json:"vehicle_type" validate:"required"`
	TripType       string `json:"trip_type"`
	Passengers     int    `json:"passengers" validate:"gte=0"`
	Luggage        int    `json:"luggage" validate:"gte=0"`
}

type multiQuoteBody struct {
	FromAddress    string `json:"from_address" validate:"required"`
	ToAddress      string `json:"to_address" validate:"required"`
	PickupDatetime string `json:"pickup_datetime" validate:"required"`
	TripType       string `json:"trip_type"`
	Passengers     int    `json:"passengers" validate:"gte=0"`
	Luggage        int    `json:"luggage" validate:"gte=0"`
}

// POST /calculate-quote
func (h *QuoteHandler) Calculate(c fiber.Ctx) error {
	var body quoteBody
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}
	pickup, err := parseDateTime(body.PickupDatetime)
	if err != nil {
		return badRequest(c, "pickup_datetime must be an ISO 8601 datetime")
	}

	q, err := h.svc.CalculateQuote(c.Context(), pricing.QuoteRequest{
		FromAddress:    body.FromAddress,
		ToAddress:      body.ToAddress,
		PickupDatetime: pickup,
		VehicleType:    body.VehicleType,
		TripType:       body.TripType,
		Passengers:     body.Passengers,
		Luggage:        body.Luggage,
	})
	if err != nil {
		return mapPricingError(c, err)
	}
	return c.JSON(fiber.Map{"quote": q})
}

// POST /calculate-multi-quote
func (h *QuoteHandler) CalculateMulti(c fiber.Ctx) error {
	var body multiQuoteBody
	if err := bindBody(c, &body); err != nil {
		return badRequest(c, err.Error())
	}
	pickup, err := parseDateTime(body.PickupDatetime)
	if err != nil {
		return badRequest(c, "pickup_datetime must be an ISO 8601 datetime")
	}

	quotes, err := h.svc.CalculateMultiQuote(c.Context(), pricing.MultiQuoteRequest{
		FromAddress:    body.FromAddress,
		ToAddress:      body.ToAddress,
		PickupDatetime: pickup,
		TripType:       body.TripType,
		Passengers:     body.Passengers,
		Luggage:        body.Luggage,
	})
	if err != nil {
		return mapPricingError(c, err)
	}
	return c.JSON(fiber.Map{"quotes": quotes})
}

// GET /quotes/:number
func (h *QuoteHandler) Get(c fiber.Ctx) error {
	q, err := h.svc.GetQuote(c.Context(), c.Params("number"))
	if err != nil {
		return mapPricingError(c, err)
	}
	return c.JSON(fiber.Map{"quote": q})
}
