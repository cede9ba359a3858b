package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// PartnerCounters are deltas applied to a partner's running totals.
type PartnerCounters struct {
	Earnings      decimal.Decimal
	PendingPayout decimal.Decimal
	Bookings      int
}

func (c *Client) GetPartner(ctx context.Context, id uuid.UUID) (*Partner, error) {
	sel := selectFrom(migrate.PartnersTable).Where(sql.EQ("id", id))
	return first[Partner](ctx, c, sel, "partner")
}

// GetPartnerForUpdate locks the partner row until the surrounding transaction ends.
func (c *Client) GetPartnerForUpdate(ctx context.Context, id uuid.UUID) (*Partner, error) {
	sel := selectFrom(migrate.PartnersTable).Where(sql.EQ("id", id)).ForUpdate()
	return first[Partner](ctx, c, sel, "partner")
}

func (c *Client) CreatePartner(ctx context.Context, p *Partner) error {
	if p.ID == uuid.Nil {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := c.exec(ctx, builder.Insert(migrate.PartnersTable.Name).
		Set("id", p.ID).
		Set("name", p.Name).
		Set("email", p.Email).
		Set("commission_rate", p.CommissionRate).
		Set("total_earnings", p.TotalEarnings).
		Set("pending_payout", p.PendingPayout).
		Set("total_bookings", p.TotalBookings).
		Set("created_at", p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// AddPartnerCounters increments the partner totals in one statement and
// returns the row as it is after the update.
func (c *Client) AddPartnerCounters(ctx context.Context, id uuid.UUID, d PartnerCounters) (*Partner, error) {
	upd := builder.Update(migrate.PartnersTable.Name).
		Add("total_earnings", d.Earnings).
		Add("pending_payout", d.PendingPayout).
		Add("total_bookings", d.Bookings).
		Where(sql.EQ("id", id)).
		Returning(columns(migrate.PartnersTable)...)

	var out []*Partner
	if err := c.scan(ctx, upd, &out); err != nil {
		return nil, fmt.Errorf("update partner counters: %w", err)
	}
	if len(out) == 0 {
		return nil, &NotFoundError{label: "partner"}
	}
	return out[0], nil
}
