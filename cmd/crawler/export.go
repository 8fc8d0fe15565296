package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"star_crawler/internal/service"
	"star_crawler/internal/storage/postgres"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored repositories to CSV, ordered by stars",
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

			path, _ := cmd.Flags().GetString("output")
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}

			rows, err := service.NewExportService(postgres.NewRepositoryStore(db)).WriteCSV(ctx, f)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("close %s: %w", path, closeErr)
			}
			if err != nil {
				logger.Error("export failed", "error", err)
				return err
			}

			logger.Info("export completed", "output", path, "rows", rows)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "stars.csv", "CSV file to write")
	return cmd
}
