package commission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/redis"
)

// fakeStore keeps rows in memory. InTx does not roll back.
type fakeStore struct {
	mu       sync.Mutex
	partners map[uuid.UUID]*repo.Partner
	txs      []*repo.PartnerTransaction
	payouts  []*repo.PartnerPayout
	bookings []*repo.Booking
	stats    map[string]*repo.PartnerDailyStat
	logs     []*repo.AutomationLog
	listErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		partners: map[uuid.UUID]*repo.Partner{},
		stats:    map[string]*repo.PartnerDailyStat{},
	}
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx Store) error) error { return fn(f) }

func (f *fakeStore) GetPartnerForUpdate(_ context.Context, id uuid.UUID) (*repo.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.partners[id]
	if !ok {
		return nil, repo.NewNotFoundError("partner")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) AddPartnerCounters(_ context.Context, id uuid.UUID, d repo.PartnerCounters) (*repo.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.partners[id]
	if !ok {
		return nil, repo.NewNotFoundError("partner")
	}
	p.TotalEarnings = p.TotalEarnings.Add(d.Earnings)
	p.PendingPayout = p.PendingPayout.Add(d.PendingPayout)
	p.TotalBookings += d.Bookings
	cp := *p
	return &cp, nil
}

func (f *fakeStore) FindPartnerTransaction(_ context.Context, bookingID uuid.UUID, txType string) (*repo.PartnerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.txs {
		if t.BookingID == bookingID && t.TransactionType == txType {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repo.NewNotFoundError("partner transaction")
}

func (f *fakeStore) CreatePartnerTransaction(_ context.Context, t *repo.PartnerTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	f.txs = append(f.txs, &cp)
	return nil
}

func (f *fakeStore) ApprovePartnerTransaction(_ context.Context, id uuid.UUID, amount, fee, net decimal.Decimal) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.txs {
		if t.ID == id && t.TransactionType == repo.TxCommissionPending {
			t.TransactionType = repo.TxCommissionApproved
			t.Status = repo.TxStatusApproved
			t.Amount, t.PlatformFee, t.NetAmount = amount, fee, net
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListUnpaidApprovedTransactions(_ context.Context, partnerID uuid.UUID) ([]*repo.PartnerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repo.PartnerTransaction
	for _, t := range f.txs {
		if t.PartnerID == partnerID && t.TransactionType == repo.TxCommissionApproved && t.PayoutID == nil {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) AssignPayout(_ context.Context, payoutID uuid.UUID, ids []uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.txs {
		for _, id := range ids {
			if t.ID == id && t.PayoutID == nil {
				pid := payoutID
				t.PayoutID = &pid
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeStore) CreatePartnerPayout(_ context.Context, p *repo.PartnerPayout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.payouts = append(f.payouts, &cp)
	return nil
}

func (f *fakeStore) ListCompletedPartnerBookings(_ context.Context, from, to time.Time) ([]*repo.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*repo.Booking
	for _, b := range f.bookings {
		if b.WorkflowStatus != repo.WorkflowCompleted || b.PartnerID == nil || b.CompletedAt == nil {
			continue
		}
		if b.CompletedAt.Before(from) || !b.CompletedAt.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) UpsertPartnerDailyStat(_ context.Context, s *repo.PartnerDailyStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := s.PartnerID.String() + s.Date.Format(time.DateOnly)
	cur, ok := f.stats[key]
	if !ok {
		cp := *s
		f.stats[key] = &cp
		return nil
	}
	cur.BookingsCount += s.BookingsCount
	cur.Revenue = cur.Revenue.Add(s.Revenue)
	cur.CommissionEarned = cur.CommissionEarned.Add(s.CommissionEarned)
	cur.PlatformFees = cur.PlatformFees.Add(s.PlatformFees)
	return nil
}

func (f *fakeStore) CreateAutomationLog(_ context.Context, l *repo.AutomationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeStore) approvedFor(bookingID uuid.UUID) int {
	n := 0
	for _, t := range f.txs {
		if t.BookingID == bookingID && t.TransactionType == repo.TxCommissionApproved {
			n++
		}
	}
	return n
}

// now is 2026-03-15 10:00 UTC, so the default window is 2026-03-14.
var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, store Store, locker Locker) *commissionService {
	t.Helper()
	svc, err := New(store, locker, nil, config.CommissionConfig{Timezone: "UTC"})
	require.NoError(t, err)
	s := svc.(*commissionService)
	s.now = func() time.Time { return now }
	return s
}

func addPartner(f *fakeStore, rate int64) *repo.Partner {
	p := &repo.Partner{ID: uuid.New(), Name: "Caribe Tours", CommissionRate: decimal.NewFromInt(rate)}
	f.partners[p.ID] = p
	return p
}

func addBooking(f *fakeStore, partnerID uuid.UUID, price int64, completed time.Time) *repo.Booking {
	pid := partnerID
	at := completed
	b := &repo.Booking{
		ID:             uuid.New(),
		Reference:      "TR-" + uuid.NewString()[:8],
		PartnerID:      &pid,
		Price:          decimal.NewFromInt(price),
		WorkflowStatus: repo.WorkflowCompleted,
		CompletedAt:    &at,
	}
	f.bookings = append(f.bookings, b)
	return b
}

func TestCalculateCommission(t *testing.T) {
	c := CalculateCommission(decimal.NewFromInt(200), decimal.NewFromInt(20))
	assert.Equal(t, "40", c.Commission.String())
	assert.Equal(t, "6", c.PlatformFee.String())
	assert.Equal(t, "34", c.Net.String())

	c = CalculateCommission(decimal.RequireFromString("123.45"), decimal.NewFromInt(15))
	assert.Equal(t, "18.52", c.Commission.String())
	assert.Equal(t, "3.7", c.PlatformFee.String())
	assert.Equal(t, "14.82", c.Net.String())
}

func TestNew_InvalidTimezone(t *testing.T) {
	_, err := New(newFakeStore(), nil, nil, config.CommissionConfig{Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestRunSettlement_SettlesAndPaysOut(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		addBooking(store, p.ID, 200, day.Add(time.Duration(9+i)*time.Hour))
	}
	svc := newService(t, store, nil)

	res, err := svc.RunSettlement(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", res.Date)
	assert.Equal(t, repo.AutomationSuccess, res.Status)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 3, res.Settled)
	assert.Zero(t, res.Failed)

	require.Len(t, res.Payouts, 1)
	assert.Equal(t, "102", res.Payouts[0].Amount.String())
	assert.Equal(t, 3, res.Payouts[0].Transactions)

	partner := store.partners[p.ID]
	assert.Equal(t, "102", partner.TotalEarnings.String())
	assert.True(t, partner.PendingPayout.IsZero())
	assert.Equal(t, 3, partner.TotalBookings)

	require.Len(t, store.payouts, 1)
	assert.Len(t, store.payouts[0].IncludedTransactions, 3)
	for _, tx := range store.txs {
		require.NotNil(t, tx.PayoutID)
		assert.Equal(t, store.payouts[0].ID, *tx.PayoutID)
	}

	stat := store.stats[p.ID.String()+"2026-03-14"]
	require.NotNil(t, stat)
	assert.Equal(t, 3, stat.BookingsCount)
	assert.Equal(t, "600", stat.Revenue.String())
	assert.Equal(t, "120", stat.CommissionEarned.String())
	assert.Equal(t, "18", stat.PlatformFees.String())

	require.Len(t, store.logs, 1)
	assert.Equal(t, JobName, store.logs[0].JobName)
	assert.Equal(t, repo.AutomationSuccess, store.logs[0].Status)
	assert.Nil(t, store.logs[0].Error)
}

func TestRunSettlement_Idempotent(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	b := addBooking(store, p.ID, 200, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	svc := newService(t, store, nil)
	ctx := context.Background()

	first, err := svc.RunSettlement(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Settled)

	second, err := svc.RunSettlement(ctx, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, second.Settled)
	assert.Equal(t, 1, second.Skipped)

	assert.Equal(t, 1, store.approvedFor(b.ID))
	assert.Equal(t, "34", store.partners[p.ID].PendingPayout.String())
	assert.Equal(t, 1, store.partners[p.ID].TotalBookings)
	assert.Equal(t, 1, store.stats[p.ID.String()+"2026-03-14"].BookingsCount)
	assert.Len(t, store.logs, 2)
}

func TestRunSettlement_BelowThresholdNoPayout(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	addBooking(store, p.ID, 200, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	svc := newService(t, store, nil)

	res, err := svc.RunSettlement(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, res.Payouts)
	assert.Empty(t, store.payouts)
	assert.Nil(t, store.txs[0].PayoutID)
}

func TestRunSettlement_PayoutThresholdBoundary(t *testing.T) {
	cases := []struct {
		name   string
		price  string
		payout bool
	}{
		// 13% commission minus the 3% platform fee
		{"exactly at threshold", "1000", true},
		{"one cent short", "999.90", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			p := addPartner(store, 13)
			b := addBooking(store, p.ID, 0, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
			b.Price = decimal.RequireFromString(tc.price)
			svc := newService(t, store, nil)

			res, err := svc.RunSettlement(context.Background(), time.Time{})
			require.NoError(t, err)
			require.Equal(t, 1, res.Settled)

			if !tc.payout {
				assert.Empty(t, res.Payouts)
				assert.Empty(t, store.payouts)
				assert.Equal(t, "99.99", store.partners[p.ID].PendingPayout.String())
				return
			}
			require.Len(t, res.Payouts, 1)
			assert.Equal(t, "100", res.Payouts[0].Amount.String())
			assert.Equal(t, 1, res.Payouts[0].Transactions)
			assert.True(t, store.partners[p.ID].PendingPayout.IsZero())
		})
	}
}

func TestRunSettlement_PromotesPendingCommission(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	b := addBooking(store, p.ID, 200, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	svc := newService(t, store, nil)
	ctx := context.Background()

	require.NoError(t, svc.CreatePendingCommission(ctx, b))
	require.Len(t, store.txs, 1)
	pendingID := store.txs[0].ID
	assert.Equal(t, repo.TxCommissionPending, store.txs[0].TransactionType)
	assert.True(t, store.partners[p.ID].PendingPayout.IsZero(), "pending commissions are not credited")

	res, err := svc.RunSettlement(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Settled)
	require.Len(t, store.txs, 1)
	assert.Equal(t, pendingID, store.txs[0].ID)
	assert.Equal(t, repo.TxCommissionApproved, store.txs[0].TransactionType)
	assert.Equal(t, "34", store.txs[0].NetAmount.String())
}

func TestRunSettlement_IsolatesFailures(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	good := addBooking(store, p.ID, 200, day)
	orphan := addBooking(store, uuid.New(), 300, day.Add(time.Hour))
	svc := newService(t, store, nil)

	res, err := svc.RunSettlement(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, repo.AutomationPartial, res.Status)
	assert.Equal(t, 1, res.Settled)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, store.approvedFor(good.ID))
	assert.Zero(t, store.approvedFor(orphan.ID))

	require.Len(t, store.logs, 1)
	assert.Equal(t, repo.AutomationPartial, store.logs[0].Status)
	require.NotNil(t, store.logs[0].Error)
	assert.Contains(t, *store.logs[0].Error, orphan.Reference)
}

func TestRunSettlement_Window(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 10)
	inside := addBooking(store, p.ID, 100, time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))
	before := addBooking(store, p.ID, 100, time.Date(2026, 3, 13, 23, 59, 0, 0, time.UTC))
	after := addBooking(store, p.ID, 100, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	svc := newService(t, store, nil)

	res, err := svc.RunSettlement(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, store.approvedFor(inside.ID))
	assert.Zero(t, store.approvedFor(before.ID))
	assert.Zero(t, store.approvedFor(after.ID))

	res, err = svc.RunSettlement(context.Background(), time.Date(2026, 3, 13, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-13", res.Date)
	assert.Equal(t, 1, store.approvedFor(before.ID))
}

func TestRunSettlement_ListFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	svc := newService(t, store, nil)

	_, err := svc.RunSettlement(context.Background(), time.Time{})
	require.Error(t, err)
	require.Len(t, store.logs, 1)
	assert.Equal(t, repo.AutomationError, store.logs[0].Status)
	require.NotNil(t, store.logs[0].Error)
}

func TestRunSettlement_RejectsOverlappingRuns(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	locker := redis.NewLocker(rdb)
	ctx := context.Background()

	held, err := locker.Acquire(ctx, lockName, time.Minute)
	require.NoError(t, err)

	svc := newService(t, newFakeStore(), locker)
	_, err = svc.RunSettlement(ctx, time.Time{})
	assert.ErrorIs(t, err, ErrJobRunning)

	require.NoError(t, held.Release(ctx))
	_, err = svc.RunSettlement(ctx, time.Time{})
	require.NoError(t, err)
	assert.False(t, mr.Exists("transfers:lock:"+lockName), "lock is released after the run")
}

func TestApproveBookingCommission(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	b := addBooking(store, p.ID, 200, now)
	svc := newService(t, store, nil)
	ctx := context.Background()

	ok, err := svc.ApproveBookingCommission(ctx, b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ApproveBookingCommission(ctx, b)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, store.approvedFor(b.ID))
	assert.Equal(t, 1, store.stats[p.ID.String()+"2026-03-15"].BookingsCount)

	ok, err = svc.ApproveBookingCommission(ctx, &repo.Booking{ID: uuid.New(), Price: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreatePendingCommission(t *testing.T) {
	store := newFakeStore()
	p := addPartner(store, 20)
	b := addBooking(store, p.ID, 200, now)
	svc := newService(t, store, nil)
	ctx := context.Background()

	require.NoError(t, svc.CreatePendingCommission(ctx, b))
	require.NoError(t, svc.CreatePendingCommission(ctx, b))
	assert.Len(t, store.txs, 1)

	err := svc.CreatePendingCommission(ctx, &repo.Booking{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNoPartner)
}
