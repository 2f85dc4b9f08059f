package fetcher

import (
	"context"
	"fmt"
	"time"

	"hndaily/internal/dataset"
	"hndaily/internal/model"

	"github.com/rs/zerolog"
)

type PostSource interface {
	Fetch(ctx context.Context, startTS, endTS int64) ([]model.Post, error)
}

type DatasetStorage interface {
	Load(ctx context.Context) (model.Dataset, error)
	Save(ctx context.Context, ds model.Dataset) error
}

type FeedWriter interface {
	Write(posts []model.Post, now time.Time) error
}

type Fetcher struct {
	posts   PostSource
	storage DatasetStorage
	feed    FeedWriter
	log     zerolog.Logger

	minPoints     int
	retentionDays int
	now           func() time.Time
}

type Option func(*Fetcher)

// WithClock replaces time.Now, used for day bounds, retention and timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

func New(posts PostSource, storage DatasetStorage, feed FeedWriter, log zerolog.Logger,
	minPoints, retentionDays int, opts ...Option) *Fetcher {

	f := &Fetcher{
		posts:         posts,
		storage:       storage,
		feed:          feed,
		log:           log,
		minPoints:     minPoints,
		retentionDays: retentionDays,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// RunDaily processes yesterday's UTC calendar day.
func (f *Fetcher) RunDaily(ctx context.Context) (model.Report, error) {
	return f.RunDays(ctx, []int{1})
}

// RunDays fetches every given day offset, merges the results into the stored
// dataset, prunes it, saves it and regenerates the feed. Nothing is saved
// unless every fetch succeeded.
func (f *Fetcher) RunDays(ctx context.Context, daysAgo []int) (model.Report, error) {
	var report model.Report

	ds, err := f.storage.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load dataset: %w", err)
	}
	f.log.Info().Int("posts", len(ds.Posts)).Msg("loaded existing feed")

	posts := ds.Posts
	for _, days := range daysAgo {
		startTS, endTS := DayBounds(f.now(), days)
		day := time.Unix(startTS, 0).UTC().Format(time.DateOnly)

		f.log.Info().Str("day", day).Int("days_ago", days).Msg("fetching posts")

		fetched, err := f.posts.Fetch(ctx, startTS, endTS)
		if err != nil {
			return report, fmt.Errorf("fetch posts for %s: %w", day, err)
		}
		f.log.Info().Int("found", len(fetched)).Int("min_points", f.minPoints).Msg("fetched posts")

		var added []model.Post
		posts, added = dataset.Merge(posts, fetched)

		for _, post := range added {
			f.log.Info().Msgf("  + [%d pts] %s...", post.Points, truncate(post.Title, 50))
		}
		f.log.Info().Str("day", day).Int("added", len(added)).Msg("added new posts")

		report.Days++
		report.Fetched += len(fetched)
		report.Added += len(added)
	}

	now := f.now().UTC()

	before := len(posts)
	posts = dataset.Prune(posts, f.retentionDays, now)
	report.Pruned = before - len(posts)
	if report.Pruned > 0 {
		f.log.Info().Int("pruned", report.Pruned).Int("retention_days", f.retentionDays).Msg("pruned old posts")
	}

	ds.Posts = posts
	ds.LastUpdated = &now
	report.Total = len(posts)

	if err := f.storage.Save(ctx, ds); err != nil {
		return report, fmt.Errorf("save dataset: %w", err)
	}
	f.log.Info().Msg("saved feed data")

	if err := f.feed.Write(posts, now); err != nil {
		return report, fmt.Errorf("write feed: %w", err)
	}
	f.log.Info().Msg("generated rss feed")

	return report, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
