package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/transfers_backend/internal/api/http/handler"
	"github.com/Alijeyrad/transfers_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/transfers_backend/pkg/authorize"
)

func (r *Router) registerPartnerRoutes(api fiber.Router, ph *handler.PartnerHandler, apiKey fiber.Handler) {
	canRead := middleware.RequirePartnerPermission(r.p.Auth, authorize.ResourcePartner, authorize.ActionRead)

	p := api.Group("/partners", apiKey)
	p.Get("/:id/stats", canRead, ph.Stats)
	p.Get("/:id/transactions", canRead, ph.Transactions)
	p.Get("/:id/payouts", canRead, ph.Payouts)
}
