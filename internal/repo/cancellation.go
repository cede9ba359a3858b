package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

func (c *Client) GetCancellationRequestByToken(ctx context.Context, token string) (*CancellationRequest, error) {
	sel := selectFrom(migrate.CancellationRequestsTable).Where(sql.EQ("token", token))
	return first[CancellationRequest](ctx, c, sel, "cancellation request")
}

func (c *Client) CreateCancellationRequest(ctx context.Context, r *CancellationRequest) error {
	if r.ID == uuid.Nil {
		r.ID = newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = CancellationPending
	}
	ins := builder.Insert(migrate.CancellationRequestsTable.Name).
		Set("id", r.ID).
		Set("booking_id", r.BookingID).
		Set("token", r.Token).
		Set("reason", r.Reason).
		Set("status", r.Status).
		Set("submitted_at", r.SubmittedAt).
		Set("created_at", r.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert cancellation request: %w", err)
	}
	return nil
}

// MarkCancellationSubmitted moves a pending request to submitted. It reports
// false when the request was no longer pending.
func (c *Client) MarkCancellationSubmitted(ctx context.Context, id uuid.UUID, reason *string, at time.Time) (bool, error) {
	upd := builder.Update(migrate.CancellationRequestsTable.Name).
		Set("status", CancellationSubmitted).
		Set("submitted_at", at)
	if reason != nil {
		upd.Set("reason", *reason)
	}
	n, err := c.exec(ctx, upd.Where(sql.And(
		sql.EQ("id", id),
		sql.EQ("status", CancellationPending),
	)))
	if err != nil {
		return false, fmt.Errorf("submit cancellation request: %w", err)
	}
	return n > 0, nil
}
