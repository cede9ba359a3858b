package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/app"
	"github.com/Alijeyrad/transfers_backend/pkg/logs"
)

// NewJobsCommand groups the scheduled jobs so cron or a Kubernetes CronJob
// can run them without going through the HTTP API.
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run scheduled jobs once",
	}

	cmd.PersistentFlags().Duration("timeout", 10*time.Minute, "Maximum run time of the job")

	cmd.AddCommand(NewCommissionsCommand())
	cmd.AddCommand(NewNoShowsCommand())

	return cmd
}

// runJob builds the job graph, populates targets and calls run inside a
// started fx app.
func runJob(cmd *cobra.Command, run func(ctx context.Context) (any, error), targets ...any) error {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	slog.SetDefault(logs.New(cfg))

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	fxApp := fx.New(
		fx.Supply(cfg),
		app.JobsModule,
		app.ServiceModule,
		fx.Populate(targets...),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := fxApp.Stop(context.Background()); err != nil {
			slog.Warn("job shutdown failed", "error", err)
		}
	}()

	res, err := run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
