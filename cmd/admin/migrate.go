package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/config"
	"github.com/akshar-paaul/akshar-backend/internal/bootstrap"
	"github.com/akshar-paaul/akshar-backend/internal/db"
	"github.com/akshar-paaul/akshar-backend/internal/logging"
)

// openEnv loads config, logger and database for a CLI command.
func openEnv(ctx context.Context) (*config.Config, *zap.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.App.Environment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logger: %w", err)
	}

	pool, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, pool, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, logger, pool, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(ctx, pool, logger)
		},
	}
}
