package commission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/redis"
)

// Store is the repository surface used by settlement. InTx runs fn with a
// Store bound to a single transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	GetPartnerForUpdate(ctx context.Context, id uuid.UUID) (*repo.Partner, error)
	AddPartnerCounters(ctx context.Context, id uuid.UUID, d repo.PartnerCounters) (*repo.Partner, error)

	FindPartnerTransaction(ctx context.Context, bookingID uuid.UUID, txType string) (*repo.PartnerTransaction, error)
	CreatePartnerTransaction(ctx context.Context, t *repo.PartnerTransaction) error
	ApprovePartnerTransaction(ctx context.Context, id uuid.UUID, amount, fee, net decimal.Decimal) (bool, error)
	ListUnpaidApprovedTransactions(ctx context.Context, partnerID uuid.UUID) ([]*repo.PartnerTransaction, error)
	AssignPayout(ctx context.Context, payoutID uuid.UUID, txIDs []uuid.UUID) (int64, error)
	CreatePartnerPayout(ctx context.Context, p *repo.PartnerPayout) error

	ListCompletedPartnerBookings(ctx context.Context, from, to time.Time) ([]*repo.Booking, error)
	UpsertPartnerDailyStat(ctx context.Context, s *repo.PartnerDailyStat) error
	CreateAutomationLog(ctx context.Context, l *repo.AutomationLog) error
}

// Locker guards the settlement run. *redis.Locker satisfies it.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (*redis.Lock, error)
}

type entStore struct {
	*repo.Client
}

// NewStore adapts the repository client.
func NewStore(c *repo.Client) Store {
	return entStore{Client: c}
}

func (s entStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.Client.WithTx(ctx, func(tx *repo.Client) error {
		return fn(entStore{Client: tx})
	})
}
