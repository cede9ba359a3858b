package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/transfers_backend/internal/service/commission"
)

func NewCommissionsCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "commissions",
		Short: "Settle partner commissions for one day",
		Long: `Approve the commissions of partner bookings completed on the given day
(business timezone) and create payouts for partners over the threshold.
Without --date the job settles yesterday.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				day = d
			}

			var svc commission.Service
			return runJob(cmd, func(ctx context.Context) (any, error) {
				return svc.RunSettlement(ctx, day)
			}, &svc)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Business date to settle (YYYY-MM-DD)")

	return cmd
}
