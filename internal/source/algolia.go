package source

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"hndaily/internal/config"
	"hndaily/internal/model"

	"github.com/samber/lo"
)

const (
	defaultTitle  = "Untitled"
	defaultAuthor = "unknown"
)

type AlgoliaSource struct {
	client        *http.Client
	searchURL     string
	discussionURL string
	userAgent     string
	minPoints     int
	hitsPerPage   int
}

type searchResponse struct {
	Hits []hit `json:"hits"`
}

// Optional fields are pointers so that an absent key can be told apart
// from a zero value.
type hit struct {
	ObjectID    string  `json:"objectID"`
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Points      *int    `json:"points"`
	Author      *string `json:"author"`
	CreatedAtI  *int64  `json:"created_at_i"`
	NumComments *int    `json:"num_comments"`
}

func NewAlgoliaSource(cfg config.Config) *AlgoliaSource {
	return NewAlgoliaSourceWithClient(cfg, &http.Client{Timeout: cfg.RequestTimeout})
}

func NewAlgoliaSourceWithClient(cfg config.Config, client *http.Client) *AlgoliaSource {
	return &AlgoliaSource{
		client:        client,
		searchURL:     cfg.SearchURL,
		discussionURL: cfg.DiscussionURL,
		userAgent:     cfg.UserAgent,
		minPoints:     cfg.MinPoints,
		hitsPerPage:   cfg.PostsPerDay,
	}
}

// Fetch returns stories created within [startTS, endTS] with at least
// minPoints, highest score first. At most hitsPerPage stories are returned.
func (s *AlgoliaSource) Fetch(ctx context.Context, startTS, endTS int64) ([]model.Post, error) {
	reqURL, err := s.queryURL(startTS, endTS)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search request: unexpected status %d: %s", resp.StatusCode, body)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	posts := lo.Map(result.Hits, func(h hit, _ int) model.Post {
		return s.toPost(h)
	})

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return cmp.Compare(b.Points, a.Points)
	})

	return posts, nil
}

func (s *AlgoliaSource) queryURL(startTS, endTS int64) (string, error) {
	u, err := url.Parse(s.searchURL)
	if err != nil {
		return "", fmt.Errorf("parse search url %q: %w", s.searchURL, err)
	}

	q := u.Query()
	q.Set("tags", "story")
	q.Set("numericFilters", fmt.Sprintf("created_at_i>=%d,created_at_i<=%d,points>=%d", startTS, endTS, s.minPoints))
	q.Set("hitsPerPage", strconv.Itoa(s.hitsPerPage))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (s *AlgoliaSource) toPost(h hit) model.Post {
	permalink := s.discussionURL + h.ObjectID

	link := lo.FromPtr(h.URL)
	if link == "" {
		link = permalink
	}

	return model.Post{
		ID:          h.ObjectID,
		Title:       lo.FromPtrOr(h.Title, defaultTitle),
		URL:         link,
		Points:      lo.FromPtr(h.Points),
		Author:      lo.FromPtrOr(h.Author, defaultAuthor),
		CreatedAt:   lo.FromPtr(h.CreatedAtI),
		NumComments: lo.FromPtr(h.NumComments),
		HNURL:       permalink,
	}
}
