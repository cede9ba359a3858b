package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/money"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 366
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type StatsRequest struct {
	From time.Time
	To   time.Time
}

type Totals struct {
	Bookings         int             `json:"bookings"`
	Revenue          decimal.Decimal `json:"revenue"`
	CommissionEarned decimal.Decimal `json:"commission_earned"`
	PlatformFees     decimal.Decimal `json:"platform_fees"`
}

type Stats struct {
	PartnerID     uuid.UUID                `json:"partner_id"`
	From          string                   `json:"from"`
	To            string                   `json:"to"`
	TotalEarnings decimal.Decimal          `json:"total_earnings"`
	PendingPayout decimal.Decimal          `json:"pending_payout"`
	TotalBookings int                      `json:"total_bookings"`
	Totals        Totals                   `json:"totals"`
	Days          []*repo.PartnerDailyStat `json:"days"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// Store is satisfied by *repo.Client.
type Store interface {
	GetPartner(ctx context.Context, id uuid.UUID) (*repo.Partner, error)
	ListPartnerDailyStats(ctx context.Context, partnerID uuid.UUID, from, to time.Time) ([]*repo.PartnerDailyStat, error)
	ListPartnerTransactions(ctx context.Context, partnerID uuid.UUID, p repo.Page) ([]*repo.PartnerTransaction, error)
	ListPartnerPayouts(ctx context.Context, partnerID uuid.UUID, p repo.Page) ([]*repo.PartnerPayout, error)
}

type Service interface {
	// GetStats defaults to the last 30 days when the range is empty.
	GetStats(ctx context.Context, partnerID uuid.UUID, req StatsRequest) (*Stats, error)
	ListTransactions(ctx context.Context, partnerID uuid.UUID, page repo.Page) ([]*repo.PartnerTransaction, error)
	ListPayouts(ctx context.Context, partnerID uuid.UUID, page repo.Page) ([]*repo.PartnerPayout, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type partnerService struct {
	store Store
	now   func() time.Time
}

func New(store Store) Service {
	return &partnerService{store: store, now: time.Now}
}

func (s *partnerService) GetStats(ctx context.Context, partnerID uuid.UUID, req StatsRequest) (*Stats, error) {
	from, to, err := s.statsRange(req)
	if err != nil {
		return nil, err
	}
	p, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	days, err := s.store.ListPartnerDailyStats(ctx, partnerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	if days == nil {
		days = []*repo.PartnerDailyStat{}
	}

	totals := Totals{
		Bookings: lo.SumBy(days, func(d *repo.PartnerDailyStat) int { return d.BookingsCount }),
		Revenue: money.Sum(lo.Map(days, func(d *repo.PartnerDailyStat, _ int) decimal.Decimal {
			return d.Revenue
		})...),
		CommissionEarned: money.Sum(lo.Map(days, func(d *repo.PartnerDailyStat, _ int) decimal.Decimal {
			return d.CommissionEarned
		})...),
		PlatformFees: money.Sum(lo.Map(days, func(d *repo.PartnerDailyStat, _ int) decimal.Decimal {
			return d.PlatformFees
		})...),
	}

	return &Stats{
		PartnerID:     p.ID,
		From:          from.Format(time.DateOnly),
		To:            to.Format(time.DateOnly),
		TotalEarnings: p.TotalEarnings,
		PendingPayout: p.PendingPayout,
		TotalBookings: p.TotalBookings,
		Totals:        totals,
		Days:          days,
	}, nil
}

func (s *partnerService) ListTransactions(ctx context.Context, partnerID uuid.UUID, page repo.Page) ([]*repo.PartnerTransaction, error) {
	if _, err := s.partner(ctx, partnerID); err != nil {
		return nil, err
	}
	txs, err := s.store.ListPartnerTransactions(ctx, partnerID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return lo.Ternary(txs == nil, []*repo.PartnerTransaction{}, txs), nil
}

func (s *partnerService) ListPayouts(ctx context.Context, partnerID uuid.UUID, page repo.Page) ([]*repo.PartnerPayout, error) {
	if _, err := s.partner(ctx, partnerID); err != nil {
		return nil, err
	}
	payouts, err := s.store.ListPartnerPayouts(ctx, partnerID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	return lo.Ternary(payouts == nil, []*repo.PartnerPayout{}, payouts), nil
}

func (s *partnerService) partner(ctx context.Context, id uuid.UUID) (*repo.Partner, error) {
	p, err := s.store.GetPartner(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// statsRange truncates both ends to whole UTC days, matching how daily
// stats are keyed.
func (s *partnerService) statsRange(req StatsRequest) (time.Time, time.Time, error) {
	to := req.To
	if to.IsZero() {
		to = s.now()
	}
	from := req.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -(defaultStatsDays - 1))
	}
	from, to = day(from), day(to)
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from is after to", ErrInvalidRange)
	}
	if to.Sub(from) > maxStatsDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: at most %d days", ErrInvalidRange, maxStatsDays)
	}
	return from, to, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
