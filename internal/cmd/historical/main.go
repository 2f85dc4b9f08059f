// Command historical backfills the feed from past days.
//
//	historical        two days ago
//	historical 3      three days ago
//	historical 2 5    two to five days ago, inclusive
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hndaily/internal/app"
	"hndaily/internal/config"
	"hndaily/internal/fetcher"
	"hndaily/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	days, err := fetcher.ParseDayOffsets(args)
	if err != nil {
		return err
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info().Ints("days_ago", days).Msg("HN Daily Reader - fetching historical posts")

	report, err := a.Fetcher.RunDays(ctx, days)
	if err != nil {
		return err
	}

	app.LogSummary(log, cfg, report)
	log.Info().Msg("done")

	return nil
}
