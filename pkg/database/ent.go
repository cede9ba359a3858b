package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// NewRepoClient opens the transfers database and wraps it in a repo client.
func NewRepoClient(cfg config.DatabaseConfig) (*repo.Client, error) {
	return NewRepoClientFromConfig(FromCentralConfig(cfg))
}

func NewRepoClientFromConfig(cfg Config) (*repo.Client, error) {
	db, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	drv := entsql.OpenDB(dialect.Postgres, db)
	return repo.NewClient(repo.Driver(drv)), nil
}

// Migrate creates or updates every transfers table. In safe mode columns
// and indexes are never dropped.
func Migrate(ctx context.Context, client *repo.Client, safe bool) error {
	opts := []migrate.MigrateOption{migrate.WithForeignKeys(true)}
	if !safe {
		opts = append(opts, migrate.WithDropColumn(true), migrate.WithDropIndex(true))
	}
	if err := client.Schema.Create(ctx, opts...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
