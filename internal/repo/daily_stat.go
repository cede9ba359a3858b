package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// UpsertPartnerDailyStat adds s to the (partner_id, date) row, creating it
// when missing. Re-runs only ever see bookings not yet settled, so the
// increments never double count.
func (c *Client) UpsertPartnerDailyStat(ctx context.Context, s *PartnerDailyStat) error {
	ins := builder.Insert(migrate.PartnerDailyStatsTable.Name).
		Set("partner_id", s.PartnerID).
		Set("date", s.Date).
		Set("bookings_count", s.BookingsCount).
		Set("revenue", s.Revenue).
		Set("commission_earned", s.CommissionEarned).
		Set("platform_fees", s.PlatformFees).
		OnConflict(
			sql.ConflictColumns("partner_id", "date"),
			sql.ResolveWith(func(u *sql.UpdateSet) {
				u.Add("bookings_count", s.BookingsCount)
				u.Add("revenue", s.Revenue)
				u.Add("commission_earned", s.CommissionEarned)
				u.Add("platform_fees", s.PlatformFees)
			}),
		)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("upsert partner daily stat: %w", err)
	}
	return nil
}

// ListPartnerDailyStats returns the stats of a partner within [from, to], oldest first.
func (c *Client) ListPartnerDailyStats(ctx context.Context, partnerID uuid.UUID, from, to time.Time) ([]*PartnerDailyStat, error) {
	sel := selectFrom(migrate.PartnerDailyStatsTable).
		Where(sql.And(
			sql.EQ("partner_id", partnerID),
			sql.GTE("date", from),
			sql.LTE("date", to),
		)).
		OrderBy(sql.Asc("date"))
	return all[PartnerDailyStat](ctx, c, sel)
}
