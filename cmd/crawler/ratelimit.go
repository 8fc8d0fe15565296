package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rateLimitStatus struct {
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at"`
}

func newRateLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Print the remaining GraphQL quota for the configured token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			source, err := newGitHubSource(cfg.GitHub, logger)
			if err != nil {
				logger.Error("failed to create github source", "error", err)
				return err
			}

			sig, err := source.RateStatus(cmd.Context())
			if err != nil {
				logger.Error("failed to read rate limit", "error", err)
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rateLimitStatus{Remaining: sig.Remaining, ResetAt: sig.ResetAt})
		},
	}
}
