package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/transfers_backend/pkg/constants"
)

func ReadConfig(configPath string) (*Config, error) {
	// A local .env is optional; real environment variables always win.
	if err := godotenv.Load(filepath.Join(configPath, constants.EnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s: %w", constants.EnvFile, err)
	}

	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// Allow env vars to override config values.
	// e.g. TRANSFERS_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read the config file (optional in Docker environments)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
			return nil, fmt.Errorf("config file not found in %q and %s_DATABASE_HOST is not set", configPath, constants.EnvPrefix)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key that has a sensible default. Registering the
// key also lets AutomaticEnv pick it up when no config file is present.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "transfers")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("casbin_database.host", "localhost")
	v.SetDefault("casbin_database.port", 5432)
	v.SetDefault("casbin_database.dbname", "transfers_casbin")
	v.SetDefault("casbin_database.sslmode", "disable")
	v.SetDefault("casbin_database.user", "postgres")
	v.SetDefault("casbin_database.password", "")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.databases", []string{"transfers", "transfers_casbin"})
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allow_origins", []string{"*"})
	v.SetDefault("server.rate_limit.requests_per_minute", 60)

	v.SetDefault("auth.api_key_header", "X-API-Key")
	v.SetDefault("authorization.casbin_model_path", "casbin_model.conf")
	v.SetDefault("authorization.enable_audit", true)
	v.SetDefault("authorization.health_check_enabled", true)

	v.SetDefault("email.app_name", "Transfers")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("observability.service_name", "transfers_backend")
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject_prefix", "transfers")

	v.SetDefault("dispatch.timeout_seconds", 10)

	v.SetDefault("pricing.round_trip_multiplier", 1.9)
	v.SetDefault("pricing.quote_ttl_hours", 24)
	v.SetDefault("pricing.cache_quotes", true)

	v.SetDefault("commission.platform_fee_percent", 3)
	v.SetDefault("commission.payout_threshold", 100)
	v.SetDefault("commission.timezone", "America/Santo_Domingo")
	v.SetDefault("commission.lock_ttl_minutes", 30)

	v.SetDefault("booking.tax_percent", 15)
	v.SetDefault("booking.review_expiry_days", 7)
	v.SetDefault("booking.mileage_increment", 50)
	v.SetDefault("booking.no_show_grace_minutes", 30)
	v.SetDefault("booking.no_show_penalty", 50)
	v.SetDefault("booking.auto_dispatch_window_hours", 24)
	v.SetDefault("booking.default_phone_region", "DO")
}
