package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

func (c *Client) CreateAdminNotification(ctx context.Context, n *AdminNotification) error {
	if n.ID == uuid.Nil {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
	ins := builder.Insert(migrate.AdminNotificationsTable.Name).
		Set("id", n.ID).
		Set("type", n.Type).
		Set("title", n.Title).
		Set("message", n.Message).
		Set("booking_id", n.BookingID).
		Set("priority", n.Priority).
		Set("is_read", n.IsRead).
		Set("created_at", n.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert admin notification: %w", err)
	}
	return nil
}

func (c *Client) CreateReviewRequest(ctx context.Context, r *ReviewRequest) error {
	if r.ID == uuid.Nil {
		r.ID = newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	ins := builder.Insert(migrate.ReviewRequestsTable.Name).
		Set("id", r.ID).
		Set("booking_id", r.BookingID).
		Set("customer_id", r.CustomerID).
		Set("token", r.Token).
		Set("status", r.Status).
		Set("expires_at", r.ExpiresAt).
		Set("created_at", r.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert review request: %w", err)
	}
	return nil
}
