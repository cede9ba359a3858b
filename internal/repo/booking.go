package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// ActiveWorkflowStatuses are the statuses of a paid booking still waiting for its trip.
var ActiveWorkflowStatuses = []string{
	WorkflowAwaitingAssignment,
	WorkflowAssigned,
	WorkflowConfirmed,
	WorkflowDriverEnRoute,
}

// BookingUpdate lists the mutable booking columns. Nil pointers are skipped.
type BookingUpdate struct {
	CustomerID          *uuid.UUID
	Status              *string
	PaymentStatus       *string
	WorkflowStatus      *string
	PaymentMethod       *string
	StripePaymentID     *string
	CompletedAt         *time.Time
	CompletionEmailSent *bool
}

func (c *Client) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	sel := selectFrom(migrate.BookingsTable).Where(sql.EQ("id", id))
	return first[Booking](ctx, c, sel, "booking")
}

// GetBookingForUpdate locks the booking row until the surrounding transaction ends.
func (c *Client) GetBookingForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error) {
	sel := selectFrom(migrate.BookingsTable).Where(sql.EQ("id", id)).ForUpdate()
	return first[Booking](ctx, c, sel, "booking")
}

func (c *Client) CreateBooking(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = newID()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt

	ins := builder.Insert(migrate.BookingsTable.Name).
		Set("id", b.ID).
		Set("reference", b.Reference).
		Set("customer_id", b.CustomerID).
		Set("partner_id", b.PartnerID).
		Set("customer_email", b.CustomerEmail).
		Set("customer_name", b.CustomerName).
		Set("customer_phone", b.CustomerPhone).
		Set("pickup_location", b.PickupLocation).
		Set("dropoff_location", b.DropoffLocation).
		Set("vehicle_type", b.VehicleType).
		Set("trip_type", b.TripType).
		Set("passengers", b.Passengers).
		Set("luggage", b.Luggage).
		Set("price", b.Price).
		Set("status", b.Status).
		Set("payment_status", b.PaymentStatus).
		Set("workflow_status", b.WorkflowStatus).
		Set("pickup_datetime", b.PickupDatetime).
		Set("payment_method", b.PaymentMethod).
		Set("stripe_payment_id", b.StripePaymentID).
		Set("quote_number", b.QuoteNumber).
		Set("completed_at", b.CompletedAt).
		Set("completion_email_sent", b.CompletionEmailSent).
		Set("created_at", b.CreatedAt).
		Set("updated_at", b.UpdatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// UpdateBooking applies u and bumps updated_at.
func (c *Client) UpdateBooking(ctx context.Context, id uuid.UUID, u BookingUpdate) error {
	upd := builder.Update(migrate.BookingsTable.Name)
	if u.CustomerID != nil {
		upd.Set("customer_id", *u.CustomerID)
	}
	if u.Status != nil {
		upd.Set("status", *u.Status)
	}
	if u.PaymentStatus != nil {
		upd.Set("payment_status", *u.PaymentStatus)
	}
	if u.WorkflowStatus != nil {
		upd.Set("workflow_status", *u.WorkflowStatus)
	}
	if u.PaymentMethod != nil {
		upd.Set("payment_method", *u.PaymentMethod)
	}
	if u.StripePaymentID != nil {
		upd.Set("stripe_payment_id", *u.StripePaymentID)
	}
	if u.CompletedAt != nil {
		upd.Set("completed_at", *u.CompletedAt)
	}
	if u.CompletionEmailSent != nil {
		upd.Set("completion_email_sent", *u.CompletionEmailSent)
	}
	upd.Set("updated_at", time.Now())

	n, err := c.exec(ctx, upd.Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if n == 0 {
		return &NotFoundError{label: "booking"}
	}
	return nil
}

// ListCompletedPartnerBookings returns partner bookings completed in [from, to).
func (c *Client) ListCompletedPartnerBookings(ctx context.Context, from, to time.Time) ([]*Booking, error) {
	sel := selectFrom(migrate.BookingsTable).
		Where(sql.And(
			sql.EQ("workflow_status", WorkflowCompleted),
			sql.NotNull("partner_id"),
			sql.GTE("completed_at", from),
			sql.LT("completed_at", to),
		)).
		OrderBy(sql.Asc("completed_at"))
	return all[Booking](ctx, c, sel)
}

// ListNoShowCandidates returns paid bookings in an active workflow status
// whose pickup time is before cutoff. Assignment status is checked by the caller.
func (c *Client) ListNoShowCandidates(ctx context.Context, cutoff time.Time) ([]*Booking, error) {
	sel := selectFrom(migrate.BookingsTable).
		Where(sql.And(
			sql.LT("pickup_datetime", cutoff),
			sql.In("workflow_status", lo.ToAnySlice(ActiveWorkflowStatuses)...),
			sql.EQ("payment_status", PaymentStatusPaid),
		)).
		OrderBy(sql.Asc("pickup_datetime"))
	return all[Booking](ctx, c, sel)
}
