package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

func (c *Client) CreatePaymentTransaction(ctx context.Context, t *PaymentTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	ins := builder.Insert(migrate.PaymentTransactionsTable.Name).
		Set("id", t.ID).
		Set("booking_id", t.BookingID).
		Set("customer_id", t.CustomerID).
		Set("transaction_type", t.TransactionType).
		Set("amount", t.Amount).
		Set("payment_method", t.PaymentMethod).
		Set("external_id", t.ExternalID).
		Set("status", t.Status).
		Set("created_at", t.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}
