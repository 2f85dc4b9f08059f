// Package app wires configuration into a ready-to-run pipeline for the
// command entry points.
package app

import (
	"context"
	"fmt"

	"hndaily/internal/config"
	"hndaily/internal/feed"
	"hndaily/internal/fetcher"
	"hndaily/internal/model"
	"hndaily/internal/source"
	"hndaily/internal/storage"

	"github.com/rs/zerolog"
)

type App struct {
	Fetcher *fetcher.Fetcher
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, log zerolog.Logger, opts ...fetcher.Option) (*App, error) {
	a := &App{}

	var store fetcher.DatasetStorage
	if cfg.DatabaseDSN != "" {
		db, err := storage.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		sqlStore, err := storage.NewSQLStorage(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}

		a.closers = append(a.closers, sqlStore.Close)
		store = sqlStore
		log.Info().Msg("using database dataset storage")
	} else {
		store = storage.NewFileStorage(cfg.FeedDataFile)
		log.Info().Str("file", cfg.FeedDataFile).Msg("using file dataset storage")
	}

	a.Fetcher = fetcher.New(
		source.NewAlgoliaSource(cfg),
		store,
		feed.NewWriter(cfg.RSSFile, feed.ChannelFromConfig(cfg)),
		log,
		cfg.MinPoints,
		cfg.RetentionDays,
		opts...,
	)

	return a, nil
}

func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close: %w", err)
		}
	}
	return firstErr
}

// LogSummary prints the end-of-run summary.
func LogSummary(log zerolog.Logger, cfg config.Config, report model.Report) {
	log.Info().
		Int("days", report.Days).
		Int("fetched", report.Fetched).
		Int("added", report.Added).
		Int("pruned", report.Pruned).
		Str("rss_file", cfg.RSSFile).
		Msgf("feed now contains %d posts", report.Total)
}
