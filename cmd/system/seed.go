package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/seed"
	"github.com/Alijeyrad/transfers_backend/pkg/database"
)

func NewSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load vehicle types, pricing rules and partners from a catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			catalog, err := seed.Load(file)
			if err != nil {
				return err
			}

			client, err := database.NewRepoClient(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to create repo client: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
			defer cancel()

			var res seed.Result
			if err := client.WithTx(ctx, func(tx *repo.Client) error {
				res, err = seed.Apply(ctx, tx, catalog)
				return err
			}); err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}

			fmt.Printf("Seeded %d vehicle types, %d pricing rules, %d partners.\n",
				res.VehicleTypes, res.PricingRules, res.Partners)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "catalog file (yaml, json or toml)")

	return cmd
}
