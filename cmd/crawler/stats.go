package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"star_crawler/internal/service"
	"star_crawler/internal/storage/postgres"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print stored repository statistics as JSON",
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

			top, _ := cmd.Flags().GetInt("top")
			summary, err := service.NewStatsService(postgres.NewRepositoryStore(db)).Summary(ctx, top)
			if err != nil {
				logger.Error("failed to compute statistics", "error", err)
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().Int("top", service.DefaultTopN, "number of repositories to list by stars")
	return cmd
}
