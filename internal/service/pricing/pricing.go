package pricing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/constants"
	"github.com/Alijeyrad/transfers_backend/pkg/money"
	"github.com/Alijeyrad/transfers_backend/pkg/observability"
	"github.com/Alijeyrad/transfers_backend/pkg/util/codes"
)

const (
	TripOneWay    = "one-way"
	TripRoundTrip = "round-trip"
)

const (
	defaultRoundTripMultiplier = 1.9
	defaultQuoteTTL            = 24 * time.Hour
	maxQuoteNumberAttempts     = 5
)

// airportCode picks the first known airport code out of a free-form address.
var airportCode = regexp.MustCompile(`(?i)\b(` + strings.Join(constants.AirportCodes, "|") + `)\b`)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type QuoteRequest struct {
	FromAddress    string
	ToAddress      string
	PickupDatetime time.Time
	VehicleType    string
	TripType       string
	Passengers     int
	Luggage        int
}

type MultiQuoteRequest struct {
	FromAddress    string
	ToAddress      string
	PickupDatetime time.Time
	TripType       string
	Passengers     int
	Luggage        int
}

// Quote is a priced offer for one vehicle type. It is cached under its
// number until ExpiresAt so a booking can be created from it.
type Quote struct {
	QuoteNumber         string          `json:"quote_number"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	BasePrice           decimal.Decimal `json:"base_price"`
	DiscountApplied     bool            `json:"discount_applied"`
	DiscountPercentage  decimal.Decimal `json:"discount_percentage"`
	RoundTripMultiplier decimal.Decimal `json:"round_trip_multiplier"`
	Origin              string          `json:"origin"`
	Destination         string          `json:"destination"`
	FromAddress         string          `json:"from_address"`
	ToAddress           string          `json:"to_address"`
	VehicleTypeID       uuid.UUID       `json:"vehicle_type_id"`
	VehicleType         string          `json:"vehicle_type"`
	PassengerCapacity   int             `json:"passenger_capacity"`
	LuggageCapacity     int             `json:"luggage_capacity"`
	TripType            string          `json:"trip_type"`
	Passengers          int             `json:"passengers"`
	Luggage             int             `json:"luggage"`
	PickupDatetime      time.Time       `json:"pickup_datetime"`
	CreatedAt           time.Time       `json:"created_at"`
	ExpiresAt           time.Time       `json:"expires_at"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// Store is the slice of the repository the calculator reads from.
// *repo.Client satisfies it.
type Store interface {
	FindActiveVehicleTypeByName(ctx context.Context, name string) (*repo.VehicleType, error)
	ListActiveVehicleTypes(ctx context.Context) ([]*repo.VehicleType, error)
	ListActivePricingRules(ctx context.Context, f repo.PricingRuleFilter) ([]*repo.PricingRule, error)
	CurrentDiscount(ctx context.Context, now time.Time) (*repo.GlobalDiscountSetting, error)
}

type Service interface {
	CalculateQuote(ctx context.Context, req QuoteRequest) (*Quote, error)
	// CalculateMultiQuote prices every active vehicle type able to carry the
	// party, cheapest first.
	CalculateMultiQuote(ctx context.Context, req MultiQuoteRequest) ([]*Quote, error)
	GetQuote(ctx context.Context, number string) (*Quote, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type pricingService struct {
	store      Store
	cache      QuoteCache
	metrics    *observability.Metrics
	multiplier decimal.Decimal
	ttl        time.Duration
	now        func() time.Time
	number     func(time.Time) (string, error)
}

// New wires the calculator. cache may be nil, in which case quotes are not
// stored and GetQuote always reports ErrQuoteNotFound.
func New(store Store, cache QuoteCache, metrics *observability.Metrics, cfg config.PricingConfig) Service {
	s := &pricingService{
		store:      store,
		metrics:    metrics,
		multiplier: money.FromFloat(defaultRoundTripMultiplier),
		ttl:        defaultQuoteTTL,
		now:        time.Now,
		number:     codes.QuoteNumber,
	}
	if cfg.CacheQuotes {
		s.cache = cache
	}
	if cfg.RoundTripMultiplier > 0 {
		s.multiplier = money.FromFloat(cfg.RoundTripMultiplier)
	}
	if cfg.QuoteTTLHours > 0 {
		s.ttl = time.Duration(cfg.QuoteTTLHours) * time.Hour
	}
	return s
}

func (s *pricingService) CalculateQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	tripType, err := NormalizeTripType(req.TripType)
	if err != nil {
		return nil, err
	}

	vt, err := s.store.FindActiveVehicleTypeByName(ctx, strings.TrimSpace(req.VehicleType))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrVehicleTypeNotFound
		}
		return nil, fmt.Errorf("find vehicle type: %w", err)
	}

	origin := NormalizeOrigin(req.FromAddress)
	rules, err := s.store.ListActivePricingRules(ctx, repo.PricingRuleFilter{
		Origin:        origin,
		VehicleTypeID: &vt.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	rule, ok := lo.Find(rules, func(r *repo.PricingRule) bool {
		return destinationMatches(r.Destination, req.ToAddress)
	})
	if !ok {
		return nil, ErrNoPricingRule
	}

	discount, err := s.currentDiscount(ctx)
	if err != nil {
		return nil, err
	}

	q, err := s.build(rule, vt, tripType, discount)
	if err != nil {
		return nil, err
	}
	q.Origin = origin
	q.FromAddress = req.FromAddress
	q.ToAddress = req.ToAddress
	q.Passengers = req.Passengers
	q.Luggage = req.Luggage
	q.PickupDatetime = req.PickupDatetime

	if err := s.remember(ctx, q); err != nil {
		return nil, err
	}
	s.metrics.QuoteIssued(ctx, q.VehicleType, q.TripType)
	return q, nil
}

func (s *pricingService) CalculateMultiQuote(ctx context.Context, req MultiQuoteRequest) ([]*Quote, error) {
	tripType, err := NormalizeTripType(req.TripType)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.store.ListActiveVehicleTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicle types: %w", err)
	}
	vehicles = lo.Filter(vehicles, func(vt *repo.VehicleType, _ int) bool {
		return vt.PassengerCapacity >= req.Passengers && vt.LuggageCapacity >= req.Luggage
	})
	if len(vehicles) == 0 {
		return nil, ErrNoPricingRule
	}

	rules, err := s.store.ListActivePricingRules(ctx, repo.PricingRuleFilter{})
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	byVehicle := lo.GroupBy(rules, func(r *repo.PricingRule) uuid.UUID { return r.VehicleTypeID })

	discount, err := s.currentDiscount(ctx)
	if err != nil {
		return nil, err
	}

	quotes := make([]*Quote, 0, len(vehicles))
	for _, vt := range vehicles {
		rule := bestRouteMatch(byVehicle[vt.ID], req.FromAddress, req.ToAddress)
		if rule == nil {
			continue
		}
		q, err := s.build(rule, vt, tripType, discount)
		if err != nil {
			return nil, err
		}
		q.FromAddress = req.FromAddress
		q.ToAddress = req.ToAddress
		q.Passengers = req.Passengers
		q.Luggage = req.Luggage
		q.PickupDatetime = req.PickupDatetime
		quotes = append(quotes, q)
	}
	if len(quotes) == 0 {
		return nil, ErrNoPricingRule
	}

	slices.SortStableFunc(quotes, func(a, b *Quote) int {
		return a.TotalPrice.Cmp(b.TotalPrice)
	})
	for _, q := range quotes {
		if err := s.remember(ctx, q); err != nil {
			return nil, err
		}
		s.metrics.QuoteIssued(ctx, q.VehicleType, q.TripType)
	}
	return quotes, nil
}

func (s *pricingService) GetQuote(ctx context.Context, number string) (*Quote, error) {
	if s.cache == nil {
		return nil, ErrQuoteNotFound
	}
	q, err := s.cache.Get(ctx, codes.NormalizeCode(number))
	if err != nil {
		return nil, err
	}
	if !q.ExpiresAt.After(s.now()) {
		return nil, ErrQuoteNotFound
	}
	return q, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// build prices rule for vt. A nil discount means none is active.
func (s *pricingService) build(rule *repo.PricingRule, vt *repo.VehicleType, tripType string, discount *repo.GlobalDiscountSetting) (*Quote, error) {
	now := s.now()
	number, err := s.number(now)
	if err != nil {
		return nil, fmt.Errorf("quote number: %w", err)
	}

	multiplier := decimal.NewFromInt(1)
	if tripType == TripRoundTrip {
		multiplier = s.multiplier
	}
	price := Price(rule.BasePrice, multiplier, rule.NoDiscountAllowed, discount)

	q := &Quote{
		QuoteNumber:         number,
		TotalPrice:          price,
		BasePrice:           rule.BasePrice,
		DiscountPercentage:  decimal.Zero,
		RoundTripMultiplier: multiplier,
		Origin:              rule.Origin,
		Destination:         rule.Destination,
		VehicleTypeID:       vt.ID,
		VehicleType:         vt.Name,
		PassengerCapacity:   vt.PassengerCapacity,
		LuggageCapacity:     vt.LuggageCapacity,
		TripType:            tripType,
		CreatedAt:           now,
		ExpiresAt:           now.Add(s.ttl),
	}
	if discount != nil && !rule.NoDiscountAllowed && discount.DiscountPercentage.IsPositive() {
		q.DiscountApplied = true
		q.DiscountPercentage = discount.DiscountPercentage
	}
	return q, nil
}

func (s *pricingService) currentDiscount(ctx context.Context) (*repo.GlobalDiscountSetting, error) {
	d, err := s.store.CurrentDiscount(ctx, s.now())
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("current discount: %w", err)
	}
	return d, nil
}

// remember stores q, drawing a fresh number while the current one belongs to
// a live quote. Other cache failures are logged and the quote is still
// returned to the caller.
func (s *pricingService) remember(ctx context.Context, q *Quote) error {
	if s.cache == nil {
		return nil
	}
	for attempt := 0; attempt < maxQuoteNumberAttempts; attempt++ {
		if attempt > 0 {
			number, err := s.number(q.CreatedAt)
			if err != nil {
				return fmt.Errorf("quote number: %w", err)
			}
			q.QuoteNumber = number
		}
		err := s.cache.Put(ctx, q, s.ttl)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrQuoteNumberTaken) {
			slog.Warn("failed to cache quote", "quote_number", q.QuoteNumber, "error", err)
			return nil
		}
		slog.Debug("quote number collision", "quote_number", q.QuoteNumber, "attempt", attempt+1)
	}
	return fmt.Errorf("allocate quote number: %w", ErrQuoteNumberTaken)
}

// Price applies the trip multiplier and the global discount to base. Each
// step rounds to a whole unit.
func Price(base, multiplier decimal.Decimal, noDiscount bool, discount *repo.GlobalDiscountSetting) decimal.Decimal {
	price := base
	if !multiplier.Equal(decimal.NewFromInt(1)) {
		price = money.Whole(base.Mul(multiplier))
	}
	if noDiscount || discount == nil || !discount.DiscountPercentage.IsPositive() {
		return price
	}
	return money.Whole(money.Discount(price, discount.DiscountPercentage))
}

// NormalizeOrigin maps an address to the airport code it mentions, or the
// trimmed address itself.
func NormalizeOrigin(address string) string {
	if m := airportCode.FindString(address); m != "" {
		return strings.ToUpper(m)
	}
	return strings.TrimSpace(address)
}

// NormalizeTripType defaults to one-way.
func NormalizeTripType(t string) (string, error) {
	t = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t)), "_", "-")
	switch t {
	case "", TripOneWay:
		return TripOneWay, nil
	case TripRoundTrip:
		return TripRoundTrip, nil
	}
	return "", ErrInvalidTripType
}

func destinationMatches(destination, toAddress string) bool {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return false
	}
	return strings.EqualFold(destination, strings.TrimSpace(toAddress)) ||
		containsFold(toAddress, destination)
}

// bestRouteMatch returns the rule whose origin and destination both occur in
// the addresses, preferring priority and then the longest match.
func bestRouteMatch(rules []*repo.PricingRule, from, to string) *repo.PricingRule {
	candidates := lo.Filter(rules, func(r *repo.PricingRule, _ int) bool {
		return r.Origin != "" && r.Destination != "" &&
			containsFold(from, r.Origin) && containsFold(to, r.Destination)
	})
	if len(candidates) == 0 {
		return nil
	}
	slices.SortStableFunc(candidates, func(a, b *repo.PricingRule) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(len(b.Origin)+len(b.Destination), len(a.Origin)+len(a.Destination))
	})
	return candidates[0]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
