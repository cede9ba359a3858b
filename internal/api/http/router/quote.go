package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/transfers_backend/internal/api/http/handler"
)

func (r *Router) registerQuoteRoutes(api fiber.Router, qh *handler.QuoteHandler) {
	api.Post("/calculate-quote", qh.Calculate)
	api.Post("/calculate-multi-quote", qh.CalculateMulti)
	api.Get("/quotes/:number", qh.Get)
}
