// Package dataset holds the pure operations applied to the rolling post
// collection between load and save.
package dataset

import (
	"time"

	"hndaily/internal/model"

	"github.com/samber/lo"
)

const secondsPerDay = 24 * 60 * 60

// Merge appends every incoming post whose ID is not yet known, in incoming
// order. A post already present is never replaced, even when the incoming
// copy has newer points. Duplicates inside incoming collapse to the first.
// It returns the merged slice and the posts that were actually added.
func Merge(existing, incoming []model.Post) ([]model.Post, []model.Post) {
	seen := lo.Associate(existing, func(p model.Post) (string, struct{}) {
		return p.ID, struct{}{}
	})

	merged := make([]model.Post, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	var added []model.Post
	for _, post := range incoming {
		if _, ok := seen[post.ID]; ok {
			continue
		}

		seen[post.ID] = struct{}{}
		merged = append(merged, post)
		added = append(added, post)
	}

	return merged, added
}

// Prune keeps the posts created within the trailing windowDays before now.
func Prune(posts []model.Post, windowDays int, now time.Time) []model.Post {
	cutoff := Cutoff(windowDays, now)

	return lo.Filter(posts, func(p model.Post, _ int) bool {
		return p.CreatedAt >= cutoff
	})
}

func Cutoff(windowDays int, now time.Time) int64 {
	return now.Unix() - int64(windowDays)*secondsPerDay
}
