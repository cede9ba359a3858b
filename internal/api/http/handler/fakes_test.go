package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/internal/service/commission"
	"github.com/Alijeyrad/transfers_backend/internal/service/partner"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
)

type fakePricing struct {
	quote  *pricing.Quote
	quotes []*pricing.Quote
	err    error

	gotReq   pricing.QuoteRequest
	gotMulti pricing.MultiQuoteRequest
	gotNum   string
}

func (f *fakePricing) CalculateQuote(_ context.Context, req pricing.QuoteRequest) (*pricing.Quote, error) {
	f.gotReq = req
	return f.quote, f.err
}

func (f *fakePricing) CalculateMultiQuote(_ context.Context, req pricing.MultiQuoteRequest) ([]*pricing.Quote, error) {
	f.gotMulti = req
	return f.quotes, f.err
}

func (f *fakePricing) GetQuote(_ context.Context, number string) (*pricing.Quote, error) {
	f.gotNum = number
	return f.quote, f.err
}

type fakeBookings struct {
	err error

	created    *repo.Booking
	gotCreate  booking.CreateBookingRequest
	gotID      uuid.UUID
	gotPayment booking.PaymentConfirmation
	gotToken   string
	gotReason  *string
	gotNow     time.Time
}

func (f *fakeBookings) CreateBooking(_ context.Context, req booking.CreateBookingRequest) (*repo.Booking, error) {
	f.gotCreate = req
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeBookings) HandleNewBooking(_ context.Context, id uuid.UUID) (*booking.IntakeResult, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &booking.IntakeResult{Success: true, BookingID: id, CustomerID: uuid.New(), NewCustomer: true}, nil
}

func (f *fakeBookings) ConfirmPayment(_ context.Context, req booking.PaymentConfirmation) (*booking.PaymentResult, error) {
	f.gotPayment = req
	if f.err != nil {
		return nil, f.err
	}
	return &booking.PaymentResult{Success: true, WorkflowStatus: repo.WorkflowAwaitingAssignment, AutoDispatchTriggered: true}, nil
}

func (f *fakeBookings) CompleteBooking(_ context.Context, id uuid.UUID) (*booking.CompletionResult, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &booking.CompletionResult{
		Success:       true,
		InvoiceNumber: "INV-202603-ABCD2345",
		InvoiceTotal:  decimal.NewFromInt(115),
	}, nil
}

func (f *fakeBookings) SweepNoShows(_ context.Context, now time.Time) (*booking.NoShowResult, error) {
	f.gotNow = now
	if f.err != nil {
		return nil, f.err
	}
	return &booking.NoShowResult{Status: repo.AutomationSuccess, Processed: 1, Marked: 1, Bookings: []string{"TR-ABCD2345"}}, nil
}

func (f *fakeBookings) RequestCancellation(_ context.Context, token string, reason *string) (*booking.CancellationResult, error) {
	f.gotToken, f.gotReason = token, reason
	if f.err != nil {
		return nil, f.err
	}
	return &booking.CancellationResult{
		Success: true,
		Booking: booking.BookingRef{ID: uuid.New(), Reference: "TR-ABCD2345"},
	}, nil
}

type fakeCommissions struct {
	err    error
	gotDay time.Time
	called bool
}

func (f *fakeCommissions) RunSettlement(_ context.Context, day time.Time) (*commission.SettlementResult, error) {
	f.called, f.gotDay = true, day
	if f.err != nil {
		return nil, f.err
	}
	return &commission.SettlementResult{Date: "2026-03-14", Status: repo.AutomationSuccess, Payouts: []commission.PayoutSummary{}}, nil
}

func (f *fakeCommissions) ApproveBookingCommission(context.Context, *repo.Booking) (bool, error) {
	return false, nil
}

func (f *fakeCommissions) CreatePendingCommission(context.Context, *repo.Booking) error { return nil }

func (f *fakeCommissions) Calculate(price, rate decimal.Decimal) commission.Breakdown {
	return commission.CalculateCommission(price, rate)
}

type fakePartners struct {
	err     error
	gotID   uuid.UUID
	gotReq  partner.StatsRequest
	gotPage repo.Page
}

func (f *fakePartners) GetStats(_ context.Context, id uuid.UUID, req partner.StatsRequest) (*partner.Stats, error) {
	f.gotID, f.gotReq = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &partner.Stats{PartnerID: id, From: "2026-03-01", To: "2026-03-31", Days: []*repo.PartnerDailyStat{}}, nil
}

func (f *fakePartners) ListTransactions(_ context.Context, id uuid.UUID, page repo.Page) ([]*repo.PartnerTransaction, error) {
	f.gotID, f.gotPage = id, page
	if f.err != nil {
		return nil, f.err
	}
	return []*repo.PartnerTransaction{}, nil
}

func (f *fakePartners) ListPayouts(_ context.Context, id uuid.UUID, page repo.Page) ([]*repo.PartnerPayout, error) {
	f.gotID, f.gotPage = id, page
	if f.err != nil {
		return nil, f.err
	}
	return []*repo.PartnerPayout{}, nil
}
