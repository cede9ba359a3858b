package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/internal/service/commission"
	"github.com/Alijeyrad/transfers_backend/internal/service/partner"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
	"github.com/Alijeyrad/transfers_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/transfers_backend/pkg/redis"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePricingService,
		ProvideCommissionService,
		ProvideBookingService,
		ProvidePartnerService,
	),
)

func ProvidePricingService(db *repo.Client, rdb *redis.Client, metrics *observability.Metrics, cfg *config.Config) pricing.Service {
	return pricing.New(db, pricing.NewRedisQuoteCache(rdb), metrics, cfg.Pricing)
}

func ProvideCommissionService(db *repo.Client, locker *redispkg.Locker, metrics *observability.Metrics, cfg *config.Config) (commission.Service, error) {
	return commission.New(commission.NewStore(db), locker, metrics, cfg.Commission)
}

type BookingParams struct {
	fx.In

	DB          *repo.Client
	Quotes      pricing.Service
	Commissions commission.Service
	Publisher   events.Publisher
	Archiver    booking.Archiver `optional:"true"`
	Locker      *redispkg.Locker
	Metrics     *observability.Metrics
	Cfg         *config.Config
}

func ProvideBookingService(p BookingParams) booking.Service {
	return booking.New(
		booking.NewStore(p.DB),
		p.Quotes,
		p.Commissions,
		p.Publisher,
		p.Archiver,
		p.Locker,
		p.Metrics,
		p.Cfg.Booking,
	)
}

func ProvidePartnerService(db *repo.Client) partner.Service {
	return partner.New(db)
}
