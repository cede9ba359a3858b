package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/transfers_backend/internal/api/http/handler"
	"github.com/Alijeyrad/transfers_backend/pkg/authorize"
)

func (r *Router) registerJobRoutes(
	api fiber.Router,
	jh *handler.JobHandler,
	apiKey fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	jobs := api.Group("/jobs", apiKey, requirePerm(authorize.ResourceJob, authorize.ActionExecute))

	jobs.Post("/calculate-partner-commissions", jh.CalculatePartnerCommissions)
	jobs.Post("/handle-no-shows", jh.HandleNoShows)
}
