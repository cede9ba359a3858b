package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/Alijeyrad/transfers_backend/config"
)

const (
	serviceNamespace = "transfers"

	// Settlement days and no-show windows are computed in this zone, so
	// dashboards need it to line up job metrics with business days.
	attrBusinessTimezone = "transfers.business_timezone"
)

type Config struct {
	ServiceName      string
	ServiceVersion   string
	Environment      string
	BusinessTimezone string

	TracingEnabled bool
	OTLPEndpoint   string // host:port of an OTLP/HTTP collector
	OTLPInsecure   bool
	SamplingRate   float64

	MetricsEnabled bool
	// Registerer receives the Prometheus collector. Nil means the default
	// registry, which is what the /metrics route serves.
	Registerer promclient.Registerer
}

// ConfigFrom maps the application config onto the telemetry settings.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		ServiceName:      cfg.Observability.ServiceName,
		ServiceVersion:   cfg.Observability.ServiceVersion,
		Environment:      cfg.Server.Environment,
		BusinessTimezone: cfg.Commission.Timezone,
		TracingEnabled:   cfg.Observability.Tracing.Enabled,
		OTLPEndpoint:     cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:     cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:     cfg.Observability.Tracing.SamplingRate,
		MetricsEnabled:   cfg.Observability.Metrics.Enabled,
	}
}

type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Meter is the meter the domain counters and the HTTP middleware share.
func (p *Provider) Meter() otelmetric.Meter {
	return p.MeterProvider.Meter(tracerName)
}

// InitTelemetry builds the trace and meter providers and installs them as
// the otel globals together with W3C trace-context propagation.
func InitTelemetry(ctx context.Context, cfg Config) (*Provider, error) {
	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, res, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	mp, err := newMeterProvider(res, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{TracerProvider: tp, MeterProvider: mp}, nil
}

func newResource(cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceNamespace(serviceNamespace),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	}
	if cfg.BusinessTimezone != "" {
		attrs = append(attrs, attribute.String(attrBusinessTimezone, cfg.BusinessTimezone))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes("", attrs...))
}

// sampler keeps the caller's decision for propagated traces and samples new
// roots at the configured rate. Tracing switched off records nothing.
func sampler(cfg Config) trace.Sampler {
	if !cfg.TracingEnabled {
		return trace.NeverSample()
	}
	rate := cfg.SamplingRate
	if rate <= 0 {
		rate = 1
	}
	return trace.ParentBased(trace.TraceIDRatioBased(rate))
}

func newTracerProvider(ctx context.Context, res *resource.Resource, cfg Config) (*trace.TracerProvider, error) {
	opts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(sampler(cfg)),
	}
	if cfg.TracingEnabled && cfg.OTLPEndpoint != "" {
		exOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			exOpts = append(exOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, exOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, trace.WithBatcher(exporter))
	}
	return trace.NewTracerProvider(opts...), nil
}

func newMeterProvider(res *resource.Resource, cfg Config) (*metric.MeterProvider, error) {
	opts := []metric.Option{metric.WithResource(res)}
	if cfg.MetricsEnabled {
		var promOpts []prometheus.Option
		if cfg.Registerer != nil {
			promOpts = append(promOpts, prometheus.WithRegisterer(cfg.Registerer))
		}
		exporter, err := prometheus.New(promOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(exporter))
	}
	return metric.NewMeterProvider(opts...), nil
}

// Shutdown flushes pending spans and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
