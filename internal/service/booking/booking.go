package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
	"github.com/Alijeyrad/transfers_backend/pkg/money"
	"github.com/Alijeyrad/transfers_backend/pkg/observability"
	"github.com/Alijeyrad/transfers_backend/pkg/phone"
	"github.com/Alijeyrad/transfers_backend/pkg/util/codes"
)

const (
	defaultTaxPercent      = 15
	defaultReviewExpiry    = 7 * 24 * time.Hour
	defaultMileage         = 50
	defaultNoShowGrace     = 30 * time.Minute
	defaultNoShowPenalty   = 50
	defaultDispatchWindow  = 24 * time.Hour
	referenceAttempts      = 3
	notificationNewBooking = "new_booking"
	notificationNoShow     = "no_show"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateBookingRequest struct {
	QuoteNumber   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PartnerID     *uuid.UUID
}

type IntakeResult struct {
	Success     bool      `json:"success"`
	BookingID   uuid.UUID `json:"booking_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	NewCustomer bool      `json:"new_customer"`
}

type PaymentConfirmation struct {
	BookingID       uuid.UUID
	PaymentMethod   string
	AmountPaid      decimal.Decimal
	StripePaymentID *string
}

type PaymentResult struct {
	Success               bool   `json:"success"`
	WorkflowStatus        string `json:"workflow_status"`
	AutoDispatchTriggered bool   `json:"auto_dispatch_triggered"`
}

type CompletionResult struct {
	Success            bool            `json:"success"`
	InvoiceNumber      string          `json:"invoice_number"`
	InvoiceTotal       decimal.Decimal `json:"invoice_total"`
	CommissionApproved bool            `json:"commission_approved"`
	InvoiceURL         string          `json:"invoice_url,omitempty"`
}

type BookingRef struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"reference"`
}

type CancellationResult struct {
	Success bool       `json:"success"`
	Booking BookingRef `json:"booking"`
}

type NoShowResult struct {
	Status    string   `json:"status"`
	Processed int      `json:"processed"`
	Marked    int      `json:"marked"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Bookings  []string `json:"bookings"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// CreateBooking turns a cached quote into a booking and runs intake.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*repo.Booking, error)
	HandleNewBooking(ctx context.Context, bookingID uuid.UUID) (*IntakeResult, error)
	ConfirmPayment(ctx context.Context, req PaymentConfirmation) (*PaymentResult, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*CompletionResult, error)
	SweepNoShows(ctx context.Context, now time.Time) (*NoShowResult, error)
	RequestCancellation(ctx context.Context, token string, reason *string) (*CancellationResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type bookingService struct {
	store       Store
	quotes      Quotes
	commissions Commissions
	publisher   events.Publisher
	archiver    Archiver
	locker      Locker
	metrics     *observability.Metrics

	taxPct         decimal.Decimal
	reviewExpiry   time.Duration
	mileage        int
	noShowGrace    time.Duration
	noShowPenalty  decimal.Decimal
	dispatchWindow time.Duration
	phoneRegion    string

	now func() time.Time
}

// New wires the lifecycle handlers. archiver and locker may be nil.
func New(
	store Store,
	quotes Quotes,
	commissions Commissions,
	publisher events.Publisher,
	archiver Archiver,
	locker Locker,
	metrics *observability.Metrics,
	cfg config.BookingConfig,
) Service {
	s := &bookingService{
		store:          store,
		quotes:         quotes,
		commissions:    commissions,
		publisher:      publisher,
		locker:         locker,
		metrics:        metrics,
		taxPct:         decimal.NewFromInt(defaultTaxPercent),
		reviewExpiry:   defaultReviewExpiry,
		mileage:        defaultMileage,
		noShowGrace:    defaultNoShowGrace,
		noShowPenalty:  decimal.NewFromInt(defaultNoShowPenalty),
		dispatchWindow: defaultDispatchWindow,
		phoneRegion:    lo.CoalesceOrEmpty(cfg.DefaultPhoneRegion, phone.DefaultRegion),
		now:            time.Now,
	}
	if cfg.ArchiveInvoices {
		s.archiver = archiver
	}
	if cfg.TaxPercent > 0 {
		s.taxPct = money.FromFloat(cfg.TaxPercent)
	}
	if cfg.ReviewExpiryDays > 0 {
		s.reviewExpiry = time.Duration(cfg.ReviewExpiryDays) * 24 * time.Hour
	}
	if cfg.MileageIncrement > 0 {
		s.mileage = cfg.MileageIncrement
	}
	if cfg.NoShowGraceMinutes > 0 {
		s.noShowGrace = time.Duration(cfg.NoShowGraceMinutes) * time.Minute
	}
	if cfg.NoShowPenalty > 0 {
		s.noShowPenalty = money.FromFloat(cfg.NoShowPenalty)
	}
	if cfg.AutoDispatchWindowHours > 0 {
		s.dispatchWindow = time.Duration(cfg.AutoDispatchWindowHours) * time.Hour
	}
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*repo.Booking, error) {
	q, err := s.quotes.GetQuote(ctx, req.QuoteNumber)
	if err != nil {
		return nil, err
	}

	b := &repo.Booking{
		PartnerID:       req.PartnerID,
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		PickupLocation:  q.FromAddress,
		DropoffLocation: q.ToAddress,
		VehicleType:     q.VehicleType,
		TripType:        q.TripType,
		Passengers:      q.Passengers,
		Luggage:         q.Luggage,
		Price:           q.TotalPrice,
		Status:          repo.BookingStatusPending,
		PaymentStatus:   repo.PaymentStatusUnpaid,
		WorkflowStatus:  repo.WorkflowPaymentPending,
		PickupDatetime:  q.PickupDatetime,
		QuoteNumber:     lo.ToPtr(q.QuoteNumber),
	}

	for attempt := 1; ; attempt++ {
		if b.Reference, err = codes.BookingReference(); err != nil {
			return nil, fmt.Errorf("booking reference: %w", err)
		}
		err = s.store.CreateBooking(ctx, b)
		if err == nil {
			break
		}
		if !repo.IsUniqueViolation(err) || attempt == referenceAttempts {
			return nil, fmt.Errorf("create booking: %w", err)
		}
		b.ID = uuid.Nil
	}

	if _, err := s.HandleNewBooking(ctx, b.ID); err != nil {
		return nil, err
	}
	return s.getBooking(ctx, s.store, b.ID)
}

func (s *bookingService) HandleNewBooking(ctx context.Context, bookingID uuid.UUID) (*IntakeResult, error) {
	res := &IntakeResult{Success: true, BookingID: bookingID}
	var token string

	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := s.getBookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != nil {
			res.CustomerID = *b.CustomerID
			return nil
		}

		now := s.now()
		normalized, ok := phone.Normalize(b.CustomerPhone, s.phoneRegion)
		if !ok && b.CustomerPhone != "" {
			slog.Info("storing unparseable phone number as given", "booking_id", b.ID)
		}

		customer, err := tx.FindCustomerByEmail(ctx, b.CustomerEmail)
		switch {
		case err == nil:
			u := repo.CustomerUpdate{Bookings: 1, LastBookingAt: &now}
			if normalized != "" {
				u.Phone = &normalized
			}
			if customer.Name == "" && b.CustomerName != "" {
				u.Name = &b.CustomerName
			}
			if err := tx.UpdateCustomer(ctx, customer.ID, u); err != nil {
				return err
			}
		case repo.IsNotFound(err):
			customer = &repo.Customer{
				Email:         strings.ToLower(strings.TrimSpace(b.CustomerEmail)),
				Name:          b.CustomerName,
				Phone:         normalized,
				TotalBookings: 1,
				TotalSpent:    decimal.Zero,
				LastBookingAt: &now,
			}
			if err := tx.CreateCustomer(ctx, customer); err != nil {
				return err
			}
			res.NewCustomer = true
		default:
			return fmt.Errorf("find customer: %w", err)
		}
		res.CustomerID = customer.ID

		if err := tx.UpdateBooking(ctx, b.ID, repo.BookingUpdate{CustomerID: &customer.ID}); err != nil {
			return err
		}

		if err := tx.CreateAdminNotification(ctx, &repo.AdminNotification{
			Type:      notificationNewBooking,
			Title:     "New booking " + b.Reference,
			Message:   fmt.Sprintf("%s booked a %s from %s to %s on %s.", b.CustomerName, b.VehicleType, b.PickupLocation, b.DropoffLocation, b.PickupDatetime.Format(time.RFC3339)),
			BookingID: &b.ID,
			Priority:  repo.PriorityNormal,
		}); err != nil {
			return err
		}

		if token, err = codes.GenerateToken(); err != nil {
			return fmt.Errorf("cancellation token: %w", err)
		}
		return tx.CreateCancellationRequest(ctx, &repo.CancellationRequest{
			BookingID: b.ID,
			Token:     token,
			Status:    repo.CancellationPending,
		})
	})
	if err != nil {
		return nil, err
	}

	if token != "" {
		s.publish(ctx, events.TopicBookingCreated, events.Event{BookingID: bookingID, Token: token})
	}
	return res, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, req PaymentConfirmation) (*PaymentResult, error) {
	if req.AmountPaid.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var booking *repo.Booking
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := s.getBookingForUpdate(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if err := checkPayable(b); err != nil {
			return err
		}

		amount := req.AmountPaid
		if amount.IsZero() {
			amount = b.Price
		}
		method := lo.CoalesceOrEmpty(strings.TrimSpace(req.PaymentMethod), "card")

		if err := tx.UpdateBooking(ctx, b.ID, repo.BookingUpdate{
			Status:          lo.ToPtr(repo.BookingStatusConfirmed),
			PaymentStatus:   lo.ToPtr(repo.PaymentStatusPaid),
			WorkflowStatus:  lo.ToPtr(repo.WorkflowAwaitingAssignment),
			PaymentMethod:   &method,
			StripePaymentID: req.StripePaymentID,
		}); err != nil {
			return err
		}
		if err := tx.CreatePaymentTransaction(ctx, &repo.PaymentTransaction{
			BookingID:       b.ID,
			CustomerID:      b.CustomerID,
			TransactionType: repo.PaymentTypePayment,
			Amount:          amount,
			PaymentMethod:   method,
			ExternalID:      req.StripePaymentID,
			Status:          repo.PaymentTxCompleted,
		}); err != nil {
			return err
		}
		if b.CustomerID != nil {
			if err := tx.UpdateCustomer(ctx, *b.CustomerID, repo.CustomerUpdate{Spent: amount}); err != nil {
				return err
			}
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking.PartnerID != nil {
		if err := s.commissions.CreatePendingCommission(ctx, booking); err != nil {
			slog.Warn("failed to record pending commission", "booking_id", booking.ID, "error", err)
		}
	}

	res := &PaymentResult{Success: true, WorkflowStatus: repo.WorkflowAwaitingAssignment}
	if until := booking.PickupDatetime.Sub(s.now()); until >= 0 && until <= s.dispatchWindow {
		res.AutoDispatchTriggered = s.publish(ctx, events.TopicDispatchRequested, events.Event{BookingID: booking.ID})
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *bookingService) getBooking(ctx context.Context, st Store, id uuid.UUID) (*repo.Booking, error) {
	b, err := st.GetBooking(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (s *bookingService) getBookingForUpdate(ctx context.Context, st Store, id uuid.UUID) (*repo.Booking, error) {
	b, err := st.GetBookingForUpdate(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// publish is fire-and-forget; it reports whether the event left the process.
func (s *bookingService) publish(ctx context.Context, topic string, ev events.Event) bool {
	if s.publisher == nil {
		return false
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.now().UTC()
	}
	if err := s.publisher.Publish(ctx, topic, ev); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "booking_id", ev.BookingID, "error", err)
		return false
	}
	return true
}
