package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// Page is a 1-based page request.
type Page struct {
	Page    int
	PerPage int
}

// Normalize clamps the page to sane bounds: page >= 1, 1 <= per_page <= 100.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (c *Client) FindPartnerTransaction(ctx context.Context, bookingID uuid.UUID, txType string) (*PartnerTransaction, error) {
	sel := selectFrom(migrate.PartnerTransactionsTable).
		Where(sql.And(
			sql.EQ("booking_id", bookingID),
			sql.EQ("transaction_type", txType),
		)).
		OrderBy(sql.Asc("created_at"))
	return first[PartnerTransaction](ctx, c, sel, "partner transaction")
}

func (c *Client) CreatePartnerTransaction(ctx context.Context, t *PartnerTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	ins := builder.Insert(migrate.PartnerTransactionsTable.Name).
		Set("id", t.ID).
		Set("partner_id", t.PartnerID).
		Set("booking_id", t.BookingID).
		Set("transaction_type", t.TransactionType).
		Set("amount", t.Amount).
		Set("platform_fee", t.PlatformFee).
		Set("net_amount", t.NetAmount).
		Set("status", t.Status).
		Set("payout_id", t.PayoutID).
		Set("created_at", t.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert partner transaction: %w", err)
	}
	return nil
}

// ApprovePartnerTransaction promotes a pending commission row to approved
// with freshly computed amounts. It only touches rows still pending.
func (c *Client) ApprovePartnerTransaction(ctx context.Context, id uuid.UUID, amount, fee, net decimal.Decimal) (bool, error) {
	n, err := c.exec(ctx, builder.Update(migrate.PartnerTransactionsTable.Name).
		Set("transaction_type", TxCommissionApproved).
		Set("status", TxStatusApproved).
		Set("amount", amount).
		Set("platform_fee", fee).
		Set("net_amount", net).
		Where(sql.And(
			sql.EQ("id", id),
			sql.EQ("transaction_type", TxCommissionPending),
		)))
	if err != nil {
		return false, fmt.Errorf("approve partner transaction: %w", err)
	}
	return n > 0, nil
}

// ListUnpaidApprovedTransactions locks and returns every approved commission
// of the partner that is not yet part of a payout.
func (c *Client) ListUnpaidApprovedTransactions(ctx context.Context, partnerID uuid.UUID) ([]*PartnerTransaction, error) {
	sel := selectFrom(migrate.PartnerTransactionsTable).
		Where(sql.And(
			sql.EQ("partner_id", partnerID),
			sql.EQ("transaction_type", TxCommissionApproved),
			sql.IsNull("payout_id"),
		)).
		OrderBy(sql.Asc("created_at")).
		ForUpdate()
	return all[PartnerTransaction](ctx, c, sel)
}

// AssignPayout links the given transactions to a payout.
func (c *Client) AssignPayout(ctx context.Context, payoutID uuid.UUID, txIDs []uuid.UUID) (int64, error) {
	if len(txIDs) == 0 {
		return 0, nil
	}
	n, err := c.exec(ctx, builder.Update(migrate.PartnerTransactionsTable.Name).
		Set("payout_id", payoutID).
		Where(sql.And(
			sql.In("id", lo.ToAnySlice(txIDs)...),
			sql.IsNull("payout_id"),
		)))
	if err != nil {
		return 0, fmt.Errorf("assign payout: %w", err)
	}
	return n, nil
}

func (c *Client) ListPartnerTransactions(ctx context.Context, partnerID uuid.UUID, p Page) ([]*PartnerTransaction, error) {
	p = p.Normalize()
	sel := selectFrom(migrate.PartnerTransactionsTable).
		Where(sql.EQ("partner_id", partnerID)).
		OrderBy(sql.Desc("created_at")).
		Offset(p.Offset()).
		Limit(p.PerPage)
	return all[PartnerTransaction](ctx, c, sel)
}
