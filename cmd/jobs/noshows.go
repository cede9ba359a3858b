package jobs

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
)

func NewNoShowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "no-shows",
		Short: "Mark paid bookings whose pickup passed without a driver on site as no-shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc booking.Service
			return runJob(cmd, func(ctx context.Context) (any, error) {
				return svc.SweepNoShows(ctx, time.Now())
			}, &svc)
		},
	}
}
