package model

import (
	"time"
)

type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"` // falls back to HNURL when the story has no external link
	Points      int    `json:"points"`
	Author      string `json:"author"`
	CreatedAt   int64  `json:"created_at"` // unix seconds, UTC
	NumComments int    `json:"num_comments"`
	HNURL       string `json:"hn_url"`
}

func (p Post) CreatedTime() time.Time {
	return time.Unix(p.CreatedAt, 0).UTC()
}

type Dataset struct {
	Posts       []Post     `json:"posts"`
	LastUpdated *time.Time `json:"last_updated"`
}

type Report struct {
	Days    int
	Fetched int
	Added   int
	Pruned  int
	Total   int
}
