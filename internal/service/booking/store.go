package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
	"github.com/Alijeyrad/transfers_backend/pkg/dispatch"
	"github.com/Alijeyrad/transfers_backend/pkg/redis"
)

// Store is the repository surface of the booking lifecycle.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	GetBooking(ctx context.Context, id uuid.UUID) (*repo.Booking, error)
	GetBookingForUpdate(ctx context.Context, id uuid.UUID) (*repo.Booking, error)
	CreateBooking(ctx context.Context, b *repo.Booking) error
	UpdateBooking(ctx context.Context, id uuid.UUID, u repo.BookingUpdate) error
	ListNoShowCandidates(ctx context.Context, cutoff time.Time) ([]*repo.Booking, error)

	FindCustomerByEmail(ctx context.Context, email string) (*repo.Customer, error)
	CreateCustomer(ctx context.Context, c *repo.Customer) error
	UpdateCustomer(ctx context.Context, id uuid.UUID, u repo.CustomerUpdate) error

	CreatePaymentTransaction(ctx context.Context, t *repo.PaymentTransaction) error
	CreateInvoice(ctx context.Context, inv *repo.Invoice) (*repo.Invoice, error)
	SetInvoiceDocument(ctx context.Context, id uuid.UUID, key string) error
	CreateReviewRequest(ctx context.Context, r *repo.ReviewRequest) error
	CreateAdminNotification(ctx context.Context, n *repo.AdminNotification) error

	CreateCancellationRequest(ctx context.Context, r *repo.CancellationRequest) error
	GetCancellationRequestByToken(ctx context.Context, token string) (*repo.CancellationRequest, error)
	MarkCancellationSubmitted(ctx context.Context, id uuid.UUID, reason *string, at time.Time) (bool, error)

	GetTripAssignmentByBooking(ctx context.Context, bookingID uuid.UUID) (*repo.TripAssignment, error)
	UpdateTripAssignmentStatus(ctx context.Context, id uuid.UUID, status string) error
	AddVehicleMileage(ctx context.Context, id uuid.UUID, delta int) error
	SetVehicleStatus(ctx context.Context, id uuid.UUID, status string) error

	CreateAutomationLog(ctx context.Context, l *repo.AutomationLog) error
}

// Commissions is the part of the commission service the lifecycle drives.
type Commissions interface {
	ApproveBookingCommission(ctx context.Context, b *repo.Booking) (bool, error)
	CreatePendingCommission(ctx context.Context, b *repo.Booking) error
}

type Quotes interface {
	GetQuote(ctx context.Context, number string) (*pricing.Quote, error)
}

// Archiver stores rendered documents and hands out short-lived download
// links for them. *s3.Client satisfies it.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignDownload(ctx context.Context, key string) (string, error)
}

type Dispatcher interface {
	AutoDispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

// Locker guards the no-show sweep. *redis.Locker satisfies it.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (*redis.Lock, error)
}

type entStore struct {
	*repo.Client
}

func NewStore(c *repo.Client) Store {
	return entStore{Client: c}
}

func (s entStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.Client.WithTx(ctx, func(tx *repo.Client) error {
		return fn(entStore{Client: tx})
	})
}
