// Package seed loads the reference catalog (vehicle types, pricing rules and
// partners) into an empty or partially filled database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
)

type VehicleType struct {
	Name              string `mapstructure:"name"`
	PassengerCapacity int    `mapstructure:"passenger_capacity"`
	LuggageCapacity   int    `mapstructure:"luggage_capacity"`
}

type PricingRule struct {
	Origin            string `mapstructure:"origin"`
	Destination       string `mapstructure:"destination"`
	VehicleType       string `mapstructure:"vehicle_type"`
	BasePrice         string `mapstructure:"base_price"`
	NoDiscountAllowed bool   `mapstructure:"no_discount_allowed"`
	Priority          int    `mapstructure:"priority"`
}

// Partner ids are fixed in the file so API keys in config.yaml can refer to
// them before the row exists.
type Partner struct {
	ID             string `mapstructure:"id"`
	Name           string `mapstructure:"name"`
	Email          string `mapstructure:"email"`
	CommissionRate string `mapstructure:"commission_rate"`
}

type Catalog struct {
	VehicleTypes []VehicleType `mapstructure:"vehicle_types"`
	PricingRules []PricingRule `mapstructure:"pricing_rules"`
	Partners     []Partner     `mapstructure:"partners"`
}

// Result counts the rows created by Apply.
type Result struct {
	VehicleTypes int
	PricingRules int
	Partners     int
}

type Store interface {
	FindActiveVehicleTypeByName(ctx context.Context, name string) (*repo.VehicleType, error)
	CreateVehicleType(ctx context.Context, vt *repo.VehicleType) error
	ListActivePricingRules(ctx context.Context, f repo.PricingRuleFilter) ([]*repo.PricingRule, error)
	CreatePricingRule(ctx context.Context, r *repo.PricingRule) error
	GetPartner(ctx context.Context, id uuid.UUID) (*repo.Partner, error)
	CreatePartner(ctx context.Context, p *repo.Partner) error
}

// Load reads a catalog file. The format follows the extension (yaml, json,
// toml).
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &c, nil
}

// Apply creates every catalog entry that is not already present. Vehicle
// types match by name, pricing rules by origin, destination and vehicle
// type, partners by id. Callers run it inside a transaction so a bad entry
// leaves nothing behind.
func Apply(ctx context.Context, store Store, c *Catalog) (Result, error) {
	var res Result

	for _, in := range c.VehicleTypes {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return res, errors.New("vehicle type: name is required")
		}
		if in.PassengerCapacity <= 0 {
			return res, fmt.Errorf("vehicle type %q: passenger_capacity must be positive", name)
		}
		_, err := store.FindActiveVehicleTypeByName(ctx, name)
		if err == nil {
			slog.Debug("vehicle type exists", "name", name)
			continue
		}
		if !repo.IsNotFound(err) {
			return res, fmt.Errorf("find vehicle type %q: %w", name, err)
		}
		if err := store.CreateVehicleType(ctx, &repo.VehicleType{
			Name:              name,
			PassengerCapacity: in.PassengerCapacity,
			LuggageCapacity:   in.LuggageCapacity,
			IsActive:          true,
		}); err != nil {
			return res, err
		}
		res.VehicleTypes++
	}

	for _, in := range c.PricingRules {
		rule, err := pricingRule(ctx, store, in)
		if err != nil {
			return res, err
		}
		existing, err := store.ListActivePricingRules(ctx, repo.PricingRuleFilter{
			Origin:        rule.Origin,
			VehicleTypeID: &rule.VehicleTypeID,
		})
		if err != nil {
			return res, fmt.Errorf("list pricing rules: %w", err)
		}
		if lo.ContainsBy(existing, func(r *repo.PricingRule) bool {
			return strings.EqualFold(r.Destination, rule.Destination)
		}) {
			slog.Debug("pricing rule exists", "origin", rule.Origin, "destination", rule.Destination, "vehicle_type", in.VehicleType)
			continue
		}
		if err := store.CreatePricingRule(ctx, rule); err != nil {
			return res, err
		}
		res.PricingRules++
	}

	for _, in := range c.Partners {
		p, err := partner(in)
		if err != nil {
			return res, err
		}
		_, err = store.GetPartner(ctx, p.ID)
		if err == nil {
			slog.Debug("partner exists", "partner_id", p.ID)
			continue
		}
		if !repo.IsNotFound(err) {
			return res, fmt.Errorf("get partner %s: %w", p.ID, err)
		}
		if err := store.CreatePartner(ctx, p); err != nil {
			return res, err
		}
		res.Partners++
	}

	return res, nil
}

func pricingRule(ctx context.Context, store Store, in PricingRule) (*repo.PricingRule, error) {
	origin := strings.ToUpper(strings.TrimSpace(in.Origin))
	dest := strings.TrimSpace(in.Destination)
	if origin == "" || dest == "" {
		return nil, errors.New("pricing rule: origin and destination are required")
	}
	price, err := decimal.NewFromString(in.BasePrice)
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("pricing rule %s -> %s: base_price must be a positive amount", origin, dest)
	}
	vt, err := store.FindActiveVehicleTypeByName(ctx, strings.TrimSpace(in.VehicleType))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("pricing rule %s -> %s: unknown vehicle type %q", origin, dest, in.VehicleType)
		}
		return nil, fmt.Errorf("find vehicle type %q: %w", in.VehicleType, err)
	}
	return &repo.PricingRule{
		Origin:            origin,
		Destination:       dest,
		VehicleTypeID:     vt.ID,
		BasePrice:         price,
		NoDiscountAllowed: in.NoDiscountAllowed,
		Priority:          in.Priority,
		IsActive:          true,
	}, nil
}

func partner(in Partner) (*repo.Partner, error) {
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return nil, fmt.Errorf("partner %q: invalid id: %w", in.Name, err)
	}
	rate, err := decimal.NewFromString(in.CommissionRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("partner %q: commission_rate must be between 0 and 100", in.Name)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("partner %s: name is required", id)
	}
	return &repo.Partner{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		CommissionRate: rate,
		TotalEarnings:  decimal.Zero,
		PendingPayout:  decimal.Zero,
	}, nil
}
