package main

import (
	"github.com/spf13/cobra"

	"star_crawler/internal/storage/postgres"
)

func newMigrateCmd() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := connectDB(ctx, cfg.Database, logger)
			if err != nil {
				logger.Error("failed to connect to database", "error", err)
				return err
			}
			defer db.Close()

			if down > 0 {
				version, err := postgres.MigrateDown(ctx, db, down)
				if err != nil {
					logger.Error("rollback failed", "steps", down, "error", err)
					return err
				}
				logger.Info("schema rolled back", "steps", down, "version", version)
				return nil
			}

			version, err := postgres.Migrate(ctx, db)
			if err != nil {
				logger.Error("migration failed", "error", err)
				return err
			}

			logger.Info("schema up to date", "version", version)
			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations instead of applying")

	return cmd
}
