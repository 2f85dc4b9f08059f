package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"slices"
	"time"

	"hndaily/internal/config"
	"hndaily/internal/model"

	"github.com/SlyMarbo/rss"
	"github.com/samber/lo"
)

const (
	rssDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"
	atomNamespace = "http://www.w3.org/2005/Atom"
	xmlHeader     = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

// Channel is the static part of the feed.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	SelfURL     string
}

func ChannelFromConfig(cfg config.Config) Channel {
	return Channel{
		Title:       cfg.FeedTitle,
		Link:        cfg.FeedLink,
		Description: cfg.FeedDescription,
		Language:    cfg.FeedLanguage,
		SelfURL:     cfg.FeedSelfURL,
	}
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Render builds an RSS 2.0 document with one item per post, newest first.
// Posts created in the same second are ordered by points, highest first.
func Render(ch Channel, posts []model.Post, now time.Time) ([]byte, error) {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b model.Post) int {
		if c := cmp.Compare(b.CreatedAt, a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.Points, a.Points)
	})

	doc := rssDocument{
		Version: "2.0",
		Atom:    atomNamespace,
		Channel: rssChannel{
			Title:         ch.Title,
			Link:          ch.Link,
			Description:   ch.Description,
			Language:      ch.Language,
			LastBuildDate: now.UTC().Format(rssDateLayout),
			AtomLink: atomLink{
				Href: ch.SelfURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: lo.Map(sorted, func(p model.Post, _ int) rssItem {
				return toItem(p)
			}),
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

func toItem(p model.Post) rssItem {
	return rssItem{
		Title:       ItemTitle(p),
		Link:        p.URL,
		Description: itemDescription(p),
		GUID: rssGUID{
			IsPermaLink: "true",
			Value:       p.HNURL,
		},
		PubDate: p.CreatedTime().Format(rssDateLayout),
	}
}

func ItemTitle(p model.Post) string {
	return fmt.Sprintf("[%d pts] %s", p.Points, p.Title)
}

func itemDescription(p model.Post) string {
	const descFormat = "<p><strong>%d points</strong> by %s | <strong>%d comments</strong></p>\n" +
		"<p><a href=\"%s\">View on Hacker News</a></p>"

	return fmt.Sprintf(descFormat, p.Points, p.Author, p.NumComments, p.HNURL)
}

// Verify parses a rendered document back with an RSS reader and checks
// that every item survived.
func Verify(doc []byte, wantItems int) error {
	parsed, err := rss.Parse(doc)
	if err != nil {
		return fmt.Errorf("parse rendered rss: %w", err)
	}

	if len(parsed.Items) != wantItems {
		return fmt.Errorf("rendered rss has %d items, want %d", len(parsed.Items), wantItems)
	}

	return nil
}
