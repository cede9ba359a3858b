package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/money"
	"github.com/Alijeyrad/transfers_backend/pkg/observability"
	"github.com/Alijeyrad/transfers_backend/pkg/redis"
)

const (
	JobName  = "calculate_partner_commissions"
	lockName = "commission-settlement"

	DefaultPlatformFeePercent = 3
	DefaultPayoutThreshold    = 100
	defaultTimezone           = "America/Santo_Domingo"
	defaultLockTTL            = 30 * time.Minute
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Breakdown splits a booking price into the partner's share.
type Breakdown struct {
	Commission  decimal.Decimal `json:"commission"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Net         decimal.Decimal `json:"net"`
}

type PayoutSummary struct {
	PartnerID    uuid.UUID       `json:"partner_id"`
	PayoutID     uuid.UUID       `json:"payout_id"`
	Amount       decimal.Decimal `json:"amount"`
	Transactions int             `json:"transactions"`
}

type SettlementResult struct {
	Date      string          `json:"date"`
	Status    string          `json:"status"`
	Processed int             `json:"processed"`
	Settled   int             `json:"settled"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Payouts   []PayoutSummary `json:"payouts"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// RunSettlement approves the commissions of partner bookings completed on
	// the calendar date of day, read in the business timezone, and cuts
	// payouts. A zero day means yesterday.
	RunSettlement(ctx context.Context, day time.Time) (*SettlementResult, error)
	// ApproveBookingCommission is idempotent. It reports whether this call
	// approved the commission.
	ApproveBookingCommission(ctx context.Context, b *repo.Booking) (bool, error)
	CreatePendingCommission(ctx context.Context, b *repo.Booking) error
	Calculate(price, rate decimal.Decimal) Breakdown
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type commissionService struct {
	store     Store
	locker    Locker
	metrics   *observability.Metrics
	feePct    decimal.Decimal
	threshold decimal.Decimal
	loc       *time.Location
	lockTTL   time.Duration
	now       func() time.Time
}

// New wires the settlement service. locker may be nil, which disables the
// run lock.
func New(store Store, locker Locker, metrics *observability.Metrics, cfg config.CommissionConfig) (Service, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, tz, err)
	}

	s := &commissionService{
		store:     store,
		locker:    locker,
		metrics:   metrics,
		feePct:    decimal.NewFromInt(DefaultPlatformFeePercent),
		threshold: decimal.NewFromInt(DefaultPayoutThreshold),
		loc:       loc,
		lockTTL:   defaultLockTTL,
		now:       time.Now,
	}
	if cfg.PlatformFeePercent > 0 {
		s.feePct = money.FromFloat(cfg.PlatformFeePercent)
	}
	if cfg.PayoutThreshold > 0 {
		s.threshold = money.FromFloat(cfg.PayoutThreshold)
	}
	if cfg.LockTTLMinutes > 0 {
		s.lockTTL = time.Duration(cfg.LockTTLMinutes) * time.Minute
	}
	return s, nil
}

// CalculateCommission uses the default 3% platform fee.
func CalculateCommission(price, rate decimal.Decimal) Breakdown {
	return calculate(price, rate, decimal.NewFromInt(DefaultPlatformFeePercent))
}

func calculate(price, rate, feePct decimal.Decimal) Breakdown {
	commission := money.Cents(money.Percent(price, rate))
	fee := money.Cents(money.Percent(price, feePct))
	return Breakdown{
		Commission:  commission,
		PlatformFee: fee,
		Net:         money.Cents(commission.Sub(fee)),
	}
}

func (s *commissionService) Calculate(price, rate decimal.Decimal) Breakdown {
	return calculate(price, rate, s.feePct)
}

func (s *commissionService) RunSettlement(ctx context.Context, day time.Time) (*SettlementResult, error) {
	if s.locker != nil {
		lock, err := s.locker.Acquire(ctx, lockName, s.lockTTL)
		if err != nil {
			if errors.Is(err, redis.ErrLocked) {
				return nil, ErrJobRunning
			}
			return nil, fmt.Errorf("acquire settlement lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("failed to release settlement lock", "error", err)
			}
		}()
	}

	started := s.now()
	from, to := s.window(day, started)
	res := &SettlementResult{Date: from.Format(time.DateOnly), Payouts: []PayoutSummary{}}

	bookings, err := s.store.ListCompletedPartnerBookings(ctx, from, to)
	if err != nil {
		err = fmt.Errorf("list completed bookings: %w", err)
		res.Status = repo.AutomationError
		s.log(ctx, started, res, err)
		return nil, err
	}

	var failures []string
	for _, b := range bookings {
		res.Processed++
		approved, err := s.ApproveBookingCommission(ctx, b)
		switch {
		case err != nil:
			res.Failed++
			failures = append(failures, b.Reference+": "+err.Error())
			slog.Error("commission settlement failed", "booking_id", b.ID, "reference", b.Reference, "error", err)
		case approved:
			res.Settled++
		default:
			res.Skipped++
		}
	}

	partners := lo.Uniq(lo.FilterMap(bookings, func(b *repo.Booking, _ int) (uuid.UUID, bool) {
		if b.PartnerID == nil {
			return uuid.Nil, false
		}
		return *b.PartnerID, true
	}))
	for _, partnerID := range partners {
		p, err := s.createPayout(ctx, partnerID)
		if err != nil {
			res.Failed++
			failures = append(failures, "payout "+partnerID.String()+": "+err.Error())
			slog.Error("partner payout failed", "partner_id", partnerID, "error", err)
			continue
		}
		if p != nil {
			res.Payouts = append(res.Payouts, *p)
		}
	}

	res.Status = repo.AutomationSuccess
	if res.Failed > 0 {
		res.Status = repo.AutomationPartial
	}
	var runErr error
	if len(failures) > 0 {
		runErr = errors.New(strings.Join(failures, "; "))
	}
	s.log(ctx, started, res, runErr)
	s.metrics.SettlementFinished(ctx, res.Settled, res.Failed, len(res.Payouts))

	slog.Info("commission settlement finished",
		"date", res.Date,
		"status", res.Status,
		"processed", res.Processed,
		"settled", res.Settled,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"payouts", len(res.Payouts),
	)
	return res, nil
}

func (s *commissionService) ApproveBookingCommission(ctx context.Context, b *repo.Booking) (bool, error) {
	if b.PartnerID == nil {
		return false, nil
	}
	var approved bool
	err := s.store.InTx(ctx, func(tx Store) error {
		_, err := tx.FindPartnerTransaction(ctx, b.ID, repo.TxCommissionApproved)
		if err == nil {
			return nil
		}
		if !repo.IsNotFound(err) {
			return fmt.Errorf("find approved commission: %w", err)
		}

		partner, err := tx.GetPartnerForUpdate(ctx, *b.PartnerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return ErrPartnerNotFound
			}
			return fmt.Errorf("get partner: %w", err)
		}
		c := s.Calculate(b.Price, partner.CommissionRate)

		pending, err := tx.FindPartnerTransaction(ctx, b.ID, repo.TxCommissionPending)
		switch {
		case err == nil:
			ok, err := tx.ApprovePartnerTransaction(ctx, pending.ID, c.Commission, c.PlatformFee, c.Net)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		case repo.IsNotFound(err):
			if err := tx.CreatePartnerTransaction(ctx, &repo.PartnerTransaction{
				PartnerID:       partner.ID,
				BookingID:       b.ID,
				TransactionType: repo.TxCommissionApproved,
				Amount:          c.Commission,
				PlatformFee:     c.PlatformFee,
				NetAmount:       c.Net,
				Status:          repo.TxStatusApproved,
			}); err != nil {
				return err
			}
		default:
			return fmt.Errorf("find pending commission: %w", err)
		}

		if _, err := tx.AddPartnerCounters(ctx, partner.ID, repo.PartnerCounters{
			Earnings:      c.Net,
			PendingPayout: c.Net,
			Bookings:      1,
		}); err != nil {
			return err
		}

		if err := tx.UpsertPartnerDailyStat(ctx, &repo.PartnerDailyStat{
			PartnerID:        partner.ID,
			Date:             s.businessDate(b),
			BookingsCount:    1,
			Revenue:          b.Price,
			CommissionEarned: c.Commission,
			PlatformFees:     c.PlatformFee,
		}); err != nil {
			return err
		}
		approved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return approved, nil
}

func (s *commissionService) CreatePendingCommission(ctx context.Context, b *repo.Booking) error {
	if b.PartnerID == nil {
		return ErrNoPartner
	}
	return s.store.InTx(ctx, func(tx Store) error {
		for _, t := range []string{repo.TxCommissionPending, repo.TxCommissionApproved} {
			_, err := tx.FindPartnerTransaction(ctx, b.ID, t)
			if err == nil {
				return nil
			}
			if !repo.IsNotFound(err) {
				return fmt.Errorf("find commission: %w", err)
			}
		}

		partner, err := tx.GetPartnerForUpdate(ctx, *b.PartnerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return ErrPartnerNotFound
			}
			return fmt.Errorf("get partner: %w", err)
		}
		c := s.Calculate(b.Price, partner.CommissionRate)
		return tx.CreatePartnerTransaction(ctx, &repo.PartnerTransaction{
			PartnerID:       partner.ID,
			BookingID:       b.ID,
			TransactionType: repo.TxCommissionPending,
			Amount:          c.Commission,
			PlatformFee:     c.PlatformFee,
			NetAmount:       c.Net,
			Status:          repo.TxStatusPending,
		})
	})
}

// createPayout batches every unpaid approved commission of the partner once
// its pending payout reaches the threshold. It returns nil when no payout
// was due.
func (s *commissionService) createPayout(ctx context.Context, partnerID uuid.UUID) (*PayoutSummary, error) {
	var out *PayoutSummary
	err := s.store.InTx(ctx, func(tx Store) error {
		partner, err := tx.GetPartnerForUpdate(ctx, partnerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("get partner: %w", err)
		}
		if partner.PendingPayout.LessThan(s.threshold) {
			return nil
		}

		txs, err := tx.ListUnpaidApprovedTransactions(ctx, partnerID)
		if err != nil {
			return fmt.Errorf("list unpaid commissions: %w", err)
		}
		if len(txs) == 0 {
			return nil
		}

		amount := money.Cents(money.Sum(lo.Map(txs, func(t *repo.PartnerTransaction, _ int) decimal.Decimal {
			return t.NetAmount
		})...))
		ids := lo.Map(txs, func(t *repo.PartnerTransaction, _ int) uuid.UUID { return t.ID })

		payout := &repo.PartnerPayout{
			PartnerID:            partnerID,
			Amount:               amount,
			Status:               repo.PayoutPending,
			IncludedTransactions: ids,
		}
		if err := tx.CreatePartnerPayout(ctx, payout); err != nil {
			return err
		}
		n, err := tx.AssignPayout(ctx, payout.ID, ids)
		if err != nil {
			return err
		}
		if int(n) != len(ids) {
			return fmt.Errorf("assign payout: %d of %d transactions updated", n, len(ids))
		}
		if _, err := tx.AddPartnerCounters(ctx, partnerID, repo.PartnerCounters{
			PendingPayout: amount.Neg(),
		}); err != nil {
			return err
		}

		out = &PayoutSummary{PartnerID: partnerID, PayoutID: payout.ID, Amount: amount, Transactions: len(ids)}
		return nil
	})
	return out, err
}

// window returns [day 00:00, next day 00:00) in the business timezone.
func (s *commissionService) window(day, now time.Time) (time.Time, time.Time) {
	if day.IsZero() {
		day = now.In(s.loc).AddDate(0, 0, -1)
	}
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 0, 1)
}

func (s *commissionService) businessDate(b *repo.Booking) time.Time {
	at := s.now()
	if b.CompletedAt != nil {
		at = *b.CompletedAt
	}
	y, m, d := at.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *commissionService) log(ctx context.Context, started time.Time, res *SettlementResult, runErr error) {
	entry := &repo.AutomationLog{
		JobName:   JobName,
		Status:    res.Status,
		Processed: res.Processed,
		Failed:    res.Failed,
		Details: map[string]any{
			"date":    res.Date,
			"settled": res.Settled,
			"skipped": res.Skipped,
			"payouts": res.Payouts,
		},
		StartedAt:  started,
		FinishedAt: s.now(),
	}
	if runErr != nil {
		entry.Error = lo.ToPtr(runErr.Error())
	}
	if err := s.store.CreateAutomationLog(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("failed to write automation log", "job", JobName, "error", err)
	}
}
