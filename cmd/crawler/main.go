package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawler",
		Short: "Resumable, rate-limited crawler for GitHub repository stars.",
		Long: `crawler pages through GitHub repository search, stores star counts in
Postgres and checkpoints after every page so an interrupted crawl resumes
exactly where it stopped.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "config.yaml", "path to config file")
	cmd.PersistentFlags().String("log-level", "", "override log_level from the config file")

	cmd.AddCommand(
		newCrawlCmd(),
		newStatsCmd(),
		newExportCmd(),
		newMigrateCmd(),
		newRateLimitCmd(),
	)
	return cmd
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
