package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/api/http/handler"
	"github.com/Alijeyrad/transfers_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/internal/service/commission"
	"github.com/Alijeyrad/transfers_backend/internal/service/partner"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
	"github.com/Alijeyrad/transfers_backend/pkg/authorize"
)

const readinessTimeout = 2 * time.Second

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	Redis         *redis.Client `optional:"true"`
	Auth          authorize.IAuthorization
	PricingSvc    pricing.Service
	BookingSvc    booking.Service
	CommissionSvc commission.Service
	PartnerSvc    partner.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	apiKey := middleware.APIKeyAuth(r.p.Cfg.Auth)
	optionalKey := middleware.OptionalAPIKey(r.p.Cfg.Auth)

	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	quoteH := handler.NewQuoteHandler(r.p.PricingSvc)
	bookingH := handler.NewBookingHandler(r.p.BookingSvc)
	jobH := handler.NewJobHandler(r.p.CommissionSvc, r.p.BookingSvc)
	partnerH := handler.NewPartnerHandler(r.p.PartnerSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerQuoteRoutes(api, quoteH)
	r.registerBookingRoutes(api, bookingH, apiKey, optionalKey, requirePerm)
	r.registerJobRoutes(api, jobH, apiKey, requirePerm)
	r.registerPartnerRoutes(api, partnerH, apiKey)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() && r.redisHealthy(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

func (r *Router) redisHealthy(ctx context.Context) bool {
	if r.p.Redis == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	return r.p.Redis.Ping(ctx).Err() == nil
}
