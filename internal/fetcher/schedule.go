package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule runs the daily pipeline on a cron expression evaluated in UTC
// until ctx is cancelled. A failed run is logged and the next one still fires.
func (f *Fetcher) Schedule(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		report, err := f.RunDaily(ctx)
		if err != nil {
			f.log.Error().Err(err).Msg("scheduled run failed")
			return
		}

		f.log.Info().
			Int("fetched", report.Fetched).
			Int("added", report.Added).
			Int("pruned", report.Pruned).
			Int("total", report.Total).
			Msg("scheduled run finished")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c.Start()
	f.log.Info().Str("schedule", spec).Msg("scheduler started")

	<-ctx.Done()

	<-c.Stop().Done()
	f.log.Info().Msg("scheduler stopped")

	return ctx.Err()
}
