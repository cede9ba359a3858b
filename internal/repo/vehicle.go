package repo

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// FindActiveVehicleTypeByName matches name case-insensitively among active vehicle types.
func (c *Client) FindActiveVehicleTypeByName(ctx context.Context, name string) (*VehicleType, error) {
	sel := selectFrom(migrate.VehicleTypesTable).
		Where(sql.And(
			sql.EqualFold("name", name),
			sql.EQ("is_active", true),
		))
	return first[VehicleType](ctx, c, sel, "vehicle type")
}

func (c *Client) ListActiveVehicleTypes(ctx context.Context) ([]*VehicleType, error) {
	sel := selectFrom(migrate.VehicleTypesTable).
		Where(sql.EQ("is_active", true)).
		OrderBy(sql.Asc("name"))
	return all[VehicleType](ctx, c, sel)
}

func (c *Client) CreateVehicleType(ctx context.Context, vt *VehicleType) error {
	if vt.ID == uuid.Nil {
		vt.ID = newID()
	}
	_, err := c.exec(ctx, builder.Insert(migrate.VehicleTypesTable.Name).
		Set("id", vt.ID).
		Set("name", vt.Name).
		Set("passenger_capacity", vt.PassengerCapacity).
		Set("luggage_capacity", vt.LuggageCapacity).
		Set("is_active", vt.IsActive))
	if err != nil {
		return fmt.Errorf("insert vehicle type: %w", err)
	}
	return nil
}

// AddVehicleMileage increments the odometer of a vehicle.
func (c *Client) AddVehicleMileage(ctx context.Context, id uuid.UUID, delta int) error {
	n, err := c.exec(ctx, builder.Update(migrate.VehiclesTable.Name).
		Add("mileage", delta).
		Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update vehicle mileage: %w", err)
	}
	if n == 0 {
		return &NotFoundError{label: "vehicle"}
	}
	return nil
}

func (c *Client) SetVehicleStatus(ctx context.Context, id uuid.UUID, status string) error {
	n, err := c.exec(ctx, builder.Update(migrate.VehiclesTable.Name).
		Set("status", status).
		Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update vehicle status: %w", err)
	}
	if n == 0 {
		return &NotFoundError{label: "vehicle"}
	}
	return nil
}
