package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/pkg/authorize"
	"github.com/Alijeyrad/transfers_backend/pkg/database"
	"github.com/Alijeyrad/transfers_backend/pkg/dispatch"
	"github.com/Alijeyrad/transfers_backend/pkg/email"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
	"github.com/Alijeyrad/transfers_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/transfers_backend/pkg/redis"
	s3pkg "github.com/Alijeyrad/transfers_backend/pkg/s3"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRepoClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideLocker),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideMetrics),
	fx.Provide(ProvideArchiver),
	fx.Provide(ProvideDispatchClient),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
)

// JobsModule is the slimmer graph used by the one-shot job commands: no
// NATS, email or dispatch clients.
var JobsModule = fx.Module("jobs-infra",
	fx.Provide(ProvideRepoClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideLocker),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideMetrics),
	fx.Provide(ProvideArchiver),
	fx.Provide(func() events.Publisher { return events.Discard{} }),
)

func ProvideRepoClient(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	client, err := database.NewRepoClient(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.Migrations.AutoMigrate {
				return nil
			}
			slog.Info("running schema migration", "safe_mode", cfg.Database.Migrations.SafeMode)
			return database.Migrate(ctx, client, cfg.Database.Migrations.SafeMode)
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return client.Close()
		},
	})
	return client, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideLocker(rdb *redis.Client) *redispkg.Locker {
	return redispkg.NewLocker(rdb)
}

// ProvideAuthorization builds the casbin enforcer, seeds the baseline
// policies and binds every configured API key to its role.
func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	dsn := database.NewDSN(cfg.CasbinDatabase)
	enforcer, cleanup, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath, dsn, cfg.Authorization.PolicySyncEnabled)
	if err != nil {
		return nil, err
	}
	auth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}
	if cfg.Authorization.EnableAudit {
		auth = authorize.NewAuditedAuthorization(auth, slog.Default())
	}

	ctx := context.Background()
	if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
		cleanup(ctx)
		return nil, err
	}
	if err := authorize.AssignAPIKeyRoles(ctx, auth, cfg.Auth.APIKeys); err != nil {
		cleanup(ctx)
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("cleaning up Casbin enforcer")
			cleanup(ctx)
			return nil
		},
	})
	return auth, nil
}

func ProvideEmailClient(cfg *config.Config) *email.Client {
	return email.NewFromCentral(cfg.Email)
}

// ProvideArchiver returns the S3 client as the invoice archiver, or a nil
// interface when S3 is disabled.
func ProvideArchiver(cfg *config.Config) (booking.Archiver, error) {
	if !cfg.S3.Enabled {
		return nil, nil
	}
	cli, err := s3pkg.New(cfg.S3)
	if err != nil {
		return nil, err
	}
	return cli, nil
}

func ProvideDispatchClient(cfg *config.Config) *dispatch.Client {
	return dispatch.New(cfg.Dispatch)
}

func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn, cfg *config.Config) events.Publisher {
	return events.NewNATSPublisher(nc, cfg.Nats.SubjectPrefix)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

type MetricsParams struct {
	fx.In

	OTel *observability.Provider `optional:"true"`
}

// ProvideMetrics registers the domain counters on the telemetry meter, or on
// the global no-op meter when observability is off.
func ProvideMetrics(p MetricsParams) (*observability.Metrics, error) {
	if p.OTel != nil {
		return observability.NewMetricsWithMeter(p.OTel.Meter())
	}
	return observability.NewMetrics()
}
