package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Database       DatabaseConfig      `mapstructure:"database"`
	CasbinDatabase DatabaseConfig      `mapstructure:"casbin_database"`
	Redis          RedisConfig         `mapstructure:"redis"`
	Server         ServerConfig        `mapstructure:"server"`
	Auth           AuthConfig          `mapstructure:"auth"`
	Authorization  AuthorizationConfig `mapstructure:"authorization"`
	Email          EmailConfig         `mapstructure:"email"`
	Observability  ObservabilityConfig `mapstructure:"observability"`
	Logging        LoggingConfig       `mapstructure:"logging"`
	S3             S3Config            `mapstructure:"s3"`
	Nats           NatsConfig          `mapstructure:"nats"`
	Dispatch       DispatchConfig      `mapstructure:"dispatch"`
	Pricing        PricingConfig       `mapstructure:"pricing"`
	Commission     CommissionConfig    `mapstructure:"commission"`
	Booking        BookingConfig       `mapstructure:"booking"`
}

type NatsConfig struct {
	URL           string `mapstructure:"url" yaml:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix" yaml:"subject_prefix"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host" validate:"required"`
	Port       int                     `mapstructure:"port" validate:"gt=0"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname" validate:"required"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
	Logging    DatabaseLoggingConfig   `mapstructure:"logging"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
	SafeMode    bool `mapstructure:"safe_mode"`
}

type DatabaseLoggingConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	SlowQueryThresholdMs int  `mapstructure:"slow_query_threshold_ms"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr" validate:"required"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port" validate:"gt=0"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Domain         string          `mapstructure:"domain"`
	Databases      []string        `mapstructure:"databases"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

// AuthConfig lists the API keys accepted by the internal endpoints.
// Each key is bound to one casbin role; partner keys are scoped to a partner id.
type AuthConfig struct {
	APIKeyHeader string         `mapstructure:"api_key_header"`
	APIKeys      []APIKeyConfig `mapstructure:"api_keys" validate:"dive"`
}

type APIKeyConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Key       string `mapstructure:"key" validate:"required,min=16"`
	Role      string `mapstructure:"role" validate:"required,oneof=admin scheduler service partner"`
	PartnerID string `mapstructure:"partner_id" validate:"required_if=Role partner"`
}

type AuthorizationConfig struct {
	CasbinModelPath    string `mapstructure:"casbin_model_path"`
	EnableAudit        bool   `mapstructure:"enable_audit"`
	PolicySyncEnabled  bool   `mapstructure:"policy_sync_enabled"`
	HealthCheckEnabled bool   `mapstructure:"health_check_enabled"`
}

type EmailConfig struct {
	Enabled      bool       `mapstructure:"enabled"`
	From         string     `mapstructure:"from"`
	AdminAddress string     `mapstructure:"admin_address"`
	AppName      string     `mapstructure:"app_name"`
	BaseURL      string     `mapstructure:"base_url"`
	SMTP         SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	PresignTTLSec   int    `mapstructure:"presign_ttl_sec"`
}

// DispatchConfig points at the fleet auto-dispatch service.
type DispatchConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url" validate:"required_if=Enabled true"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type PricingConfig struct {
	RoundTripMultiplier float64 `mapstructure:"round_trip_multiplier" validate:"gte=0"`
	QuoteTTLHours       int     `mapstructure:"quote_ttl_hours" validate:"gte=0"`
	CacheQuotes         bool    `mapstructure:"cache_quotes"`
}

type CommissionConfig struct {
	PlatformFeePercent float64 `mapstructure:"platform_fee_percent" validate:"gte=0,lte=100"`
	PayoutThreshold    float64 `mapstructure:"payout_threshold" validate:"gte=0"`
	Timezone           string  `mapstructure:"timezone"`
	LockTTLMinutes     int     `mapstructure:"lock_ttl_minutes" validate:"gte=0"`
}

type BookingConfig struct {
	TaxPercent              float64 `mapstructure:"tax_percent" validate:"gte=0,lte=100"`
	ReviewExpiryDays        int     `mapstructure:"review_expiry_days" validate:"gte=0"`
	MileageIncrement        int     `mapstructure:"mileage_increment" validate:"gte=0"`
	NoShowGraceMinutes      int     `mapstructure:"no_show_grace_minutes" validate:"gte=0"`
	NoShowPenalty           float64 `mapstructure:"no_show_penalty" validate:"gte=0"`
	AutoDispatchWindowHours int     `mapstructure:"auto_dispatch_window_hours" validate:"gte=0"`
	DefaultPhoneRegion      string  `mapstructure:"default_phone_region" validate:"omitempty,len=2"`
	ArchiveInvoices         bool    `mapstructure:"archive_invoices"`
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
