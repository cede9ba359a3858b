package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// PricingRuleFilter narrows ListActivePricingRules. Zero values match everything.
type PricingRuleFilter struct {
	Origin        string
	VehicleTypeID *uuid.UUID
}

// ListActivePricingRules returns active rules, highest priority first.
func (c *Client) ListActivePricingRules(ctx context.Context, f PricingRuleFilter) ([]*PricingRule, error) {
	sel := selectFrom(migrate.PricingRulesTable).Where(sql.EQ("is_active", true))
	if f.Origin != "" {
		sel.Where(sql.EQ("origin", f.Origin))
	}
	if f.VehicleTypeID != nil {
		sel.Where(sql.EQ("vehicle_type_id", *f.VehicleTypeID))
	}
	sel.OrderBy(sql.Desc("priority"), sql.Asc("id"))
	return all[PricingRule](ctx, c, sel)
}

func (c *Client) CreatePricingRule(ctx context.Context, r *PricingRule) error {
	if r.ID == uuid.Nil {
		r.ID = newID()
	}
	_, err := c.exec(ctx, builder.Insert(migrate.PricingRulesTable.Name).
		Set("id", r.ID).
		Set("origin", r.Origin).
		Set("destination", r.Destination).
		Set("vehicle_type_id", r.VehicleTypeID).
		Set("base_price", r.BasePrice).
		Set("no_discount_allowed", r.NoDiscountAllowed).
		Set("priority", r.Priority).
		Set("is_active", r.IsActive))
	if err != nil {
		return fmt.Errorf("insert pricing rule: %w", err)
	}
	return nil
}

// CurrentDiscount returns the most recently created active discount whose
// date window contains now. Open-ended windows are allowed on either side.
func (c *Client) CurrentDiscount(ctx context.Context, now time.Time) (*GlobalDiscountSetting, error) {
	sel := selectFrom(migrate.GlobalDiscountSettingsTable).
		Where(sql.And(
			sql.EQ("is_active", true),
			sql.Or(sql.IsNull("start_date"), sql.LTE("start_date", now)),
			sql.Or(sql.IsNull("end_date"), sql.GTE("end_date", now)),
		)).
		OrderBy(sql.Desc("created_at"))
	return first[GlobalDiscountSetting](ctx, c, sel, "global discount")
}
