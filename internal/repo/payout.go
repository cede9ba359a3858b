package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

func (c *Client) CreatePartnerPayout(ctx context.Context, p *PartnerPayout) error {
	if p.ID == uuid.Nil {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.IncludedTransactions == nil {
		p.IncludedTransactions = []uuid.UUID{}
	}
	included, err := json.Marshal(p.IncludedTransactions)
	if err != nil {
		return fmt.Errorf("encode included transactions: %w", err)
	}
	ins := builder.Insert(migrate.PartnerPayoutsTable.Name).
		Set("id", p.ID).
		Set("partner_id", p.PartnerID).
		Set("amount", p.Amount).
		Set("status", p.Status).
		Set("included_transactions", string(included)).
		Set("created_at", p.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert partner payout: %w", err)
	}
	return nil
}

func (c *Client) ListPartnerPayouts(ctx context.Context, partnerID uuid.UUID, p Page) ([]*PartnerPayout, error) {
	p = p.Normalize()
	sel := selectFrom(migrate.PartnerPayoutsTable).
		Where(sql.EQ("partner_id", partnerID)).
		OrderBy(sql.Desc("created_at")).
		Offset(p.Offset()).
		Limit(p.PerPage)
	return all[PartnerPayout](ctx, c, sel)
}
