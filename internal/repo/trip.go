package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

func (c *Client) GetTripAssignmentByBooking(ctx context.Context, bookingID uuid.UUID) (*TripAssignment, error) {
	sel := selectFrom(migrate.TripAssignmentsTable).Where(sql.EQ("booking_id", bookingID))
	return first[TripAssignment](ctx, c, sel, "trip assignment")
}

func (c *Client) UpdateTripAssignmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	n, err := c.exec(ctx, builder.Update(migrate.TripAssignmentsTable.Name).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update trip assignment: %w", err)
	}
	if n == 0 {
		return &NotFoundError{label: "trip assignment"}
	}
	return nil
}
