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

// CustomerUpdate carries counter deltas and optional field overwrites.
// Nil pointers leave the column untouched.
type CustomerUpdate struct {
	Bookings       int
	CompletedTrips int
	NoShows        int
	Spent          decimal.Decimal

	Name          *string
	Phone         *string
	LastBookingAt *time.Time
	LastTripAt    *time.Time
}

// FindCustomerByEmail matches email case-insensitively.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	sel := selectFrom(migrate.CustomersTable).Where(sql.EqualFold("email", email))
	return first[Customer](ctx, c, sel, "customer")
}

func (c *Client) CreateCustomer(ctx context.Context, cu *Customer) error {
	if cu.ID == uuid.Nil {
		cu.ID = newID()
	}
	if cu.CreatedAt.IsZero() {
		cu.CreatedAt = time.Now()
	}
	ins := builder.Insert(migrate.CustomersTable.Name).
		Set("id", cu.ID).
		Set("email", cu.Email).
		Set("name", cu.Name).
		Set("phone", cu.Phone).
		Set("total_bookings", cu.TotalBookings).
		Set("completed_trips", cu.CompletedTrips).
		Set("total_spent", cu.TotalSpent).
		Set("no_show_count", cu.NoShowCount).
		Set("last_booking_at", cu.LastBookingAt).
		Set("last_trip_at", cu.LastTripAt).
		Set("created_at", cu.CreatedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// UpdateCustomer applies u to the customer with one UPDATE statement.
func (c *Client) UpdateCustomer(ctx context.Context, id uuid.UUID, u CustomerUpdate) error {
	upd := builder.Update(migrate.CustomersTable.Name)
	if u.Bookings != 0 {
		upd.Add("total_bookings", u.Bookings)
	}
	if u.CompletedTrips != 0 {
		upd.Add("completed_trips", u.CompletedTrips)
	}
	if u.NoShows != 0 {
		upd.Add("no_show_count", u.NoShows)
	}
	if !u.Spent.IsZero() {
		upd.Add("total_spent", u.Spent)
	}
	if u.Name != nil {
		upd.Set("name", *u.Name)
	}
	if u.Phone != nil {
		upd.Set("phone", *u.Phone)
	}
	if u.LastBookingAt != nil {
		upd.Set("last_booking_at", *u.LastBookingAt)
	}
	if u.LastTripAt != nil {
		upd.Set("last_trip_at", *u.LastTripAt)
	}
	if upd.Empty() {
		return nil
	}

	n, err := c.exec(ctx, upd.Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if n == 0 {
		return &NotFoundError{label: "customer"}
	}
	return nil
}
