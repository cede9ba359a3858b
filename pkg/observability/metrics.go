package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics are the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	quotes      metric.Int64Counter
	settled     metric.Int64Counter
	settleFails metric.Int64Counter
	payouts     metric.Int64Counter
	noShows     metric.Int64Counter
}

// NewMetrics registers the counters on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(tracerName))
}

func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.quotes, err = meter.Int64Counter("transfers_quotes_issued_total",
		metric.WithDescription("Quotes returned to callers")); err != nil {
		return nil, err
	}
	if m.settled, err = meter.Int64Counter("transfers_commissions_settled_total",
		metric.WithDescription("Bookings whose partner commission was approved")); err != nil {
		return nil, err
	}
	if m.settleFails, err = meter.Int64Counter("transfers_commission_settlement_failures_total",
		metric.WithDescription("Bookings that failed to settle")); err != nil {
		return nil, err
	}
	if m.payouts, err = meter.Int64Counter("transfers_partner_payouts_total",
		metric.WithDescription("Partner payout batches created")); err != nil {
		return nil, err
	}
	if m.noShows, err = meter.Int64Counter("transfers_no_shows_total",
		metric.WithDescription("Bookings marked as no-show")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) QuoteIssued(ctx context.Context, vehicleType, tripType string) {
	if m == nil {
		return
	}
	m.quotes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("vehicle_type", vehicleType),
		attribute.String("trip_type", tripType),
	))
}

func (m *Metrics) SettlementFinished(ctx context.Context, settled, failed, payouts int) {
	if m == nil {
		return
	}
	m.settled.Add(ctx, int64(settled))
	m.settleFails.Add(ctx, int64(failed))
	m.payouts.Add(ctx, int64(payouts))
}

func (m *Metrics) NoShowsMarked(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.noShows.Add(ctx, int64(n))
}
