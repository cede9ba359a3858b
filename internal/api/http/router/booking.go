package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/transfers_backend/internal/api/http/handler"
	"github.com/Alijeyrad/transfers_backend/pkg/authorize"
)

func (r *Router) registerBookingRoutes(
	api fiber.Router,
	bh *handler.BookingHandler,
	apiKey fiber.Handler,
	optionalKey fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	// public
	api.Post("/bookings", optionalKey, bh.Create)
	api.Post("/request-cancellation", bh.RequestCancellation)

	// lifecycle hooks called by the web app and payment webhooks
	api.Post("/handle-new-booking", apiKey, requirePerm(authorize.ResourceBooking, authorize.ActionCreate), bh.HandleNew)
	api.Post("/handle-payment-confirmation", apiKey, requirePerm(authorize.ResourcePayment, authorize.ActionUpdate), bh.ConfirmPayment)
	api.Post("/complete-booking", apiKey, requirePerm(authorize.ResourceBooking, authorize.ActionUpdate), bh.Complete)
}
