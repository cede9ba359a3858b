package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// CreateInvoice inserts the invoice of a booking. A booking has at most one
// invoice; a second call returns the stored row untouched.
func (c *Client) CreateInvoice(ctx context.Context, inv *Invoice) (*Invoice, error) {
	if inv.ID == uuid.Nil {
		inv.ID = newID()
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = time.Now()
	}
	ins := builder.Insert(migrate.InvoicesTable.Name).
		Set("id", inv.ID).
		Set("booking_id", inv.BookingID).
		Set("invoice_number", inv.InvoiceNumber).
		Set("subtotal", inv.Subtotal).
		Set("tax", inv.Tax).
		Set("total", inv.Total).
		Set("status", inv.Status).
		Set("document_key", inv.DocumentKey).
		Set("issued_at", inv.IssuedAt).
		OnConflict(sql.ConflictColumns("booking_id"), sql.DoNothing())
	n, err := c.exec(ctx, ins)
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	if n == 0 {
		return c.GetInvoiceByBooking(ctx, inv.BookingID)
	}
	return inv, nil
}

func (c *Client) GetInvoiceByBooking(ctx context.Context, bookingID uuid.UUID) (*Invoice, error) {
	sel := selectFrom(migrate.InvoicesTable).Where(sql.EQ("booking_id", bookingID))
	return first[Invoice](ctx, c, sel, "invoice")
}

func (c *Client) SetInvoiceDocument(ctx context.Context, id uuid.UUID, key string) error {
	n, err := c.exec(ctx, builder.Update(migrate.InvoicesTable.Name).
		Set("document_key", key).
		Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update invoice document: %w", err)
	}
	if n == 0 {
		return &NotFoundError{label: "invoice"}
	}
	return nil
}
