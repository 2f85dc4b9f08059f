package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hndaily/internal/app"
	"hndaily/internal/config"
	"hndaily/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
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

	if cfg.Schedule != "" {
		if err := a.Fetcher.Schedule(ctx, cfg.Schedule); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	log.Info().Msg("HN Daily Reader - fetching yesterday's top posts")

	report, err := a.Fetcher.RunDaily(ctx)
	if err != nil {
		return err
	}

	app.LogSummary(log, cfg, report)
	log.Info().Msg("done")

	return nil
}
