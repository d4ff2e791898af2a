package connectors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// RawFeedItem is one entry of an RSS/Atom feed, kept close to the wire
// shape. Published stays a string; it is parsed defensively by the
// normalizer via ParseFeedDate.
type RawFeedItem struct {
	Title      string
	Link       string
	Published  string
	Categories []string
	Snippet    string
	Content    string
	Creator    string
	GUID       string
}

// Feed is a fetched and parsed RSS/Atom feed.
type Feed struct {
	Title       string
	Description string
	Link        string
	Items       []RawFeedItem
}

// FeedClient fetches and parses RSS/Atom feeds.
type FeedClient struct {
	parser *gofeed.Parser
}

// NewFeedClient builds a feed client with a bounded per-fetch timeout.
func NewFeedClient(timeout time.Duration) *FeedClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &FeedClient{parser: parser}
}

// Fetch retrieves and parses the feed at url. Any network or parse
// failure is returned as an error; callers treat it as a soft failure
// for that source.
func (c *FeedClient) Fetch(ctx context.Context, url string) (*Feed, error) {
	parsed, err := c.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", url, err)
	}

	feed := &Feed{
		Title:       parsed.Title,
		Description: parsed.Description,
		Link:        parsed.Link,
		Items:       make([]RawFeedItem, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		raw := RawFeedItem{
			Title:      item.Title,
			Link:       item.Link,
			Published:  item.Published,
			Categories: item.Categories,
			Snippet:    item.Description,
			Content:    item.Content,
			GUID:       item.GUID,
		}
		if raw.Published == "" {
			raw.Published = item.Updated
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			raw.Creator = item.Authors[0].Name
		}
		feed.Items = append(feed.Items, raw)
	}

	return feed, nil
}

// ParseFeedDate parses a loosely formatted feed timestamp. Unparseable
// or missing dates fall back to now so one malformed item cannot break
// an otherwise valid feed.
func ParseFeedDate(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Now()
	}
	return t
}

// Terms that mark an item as worth surfacing regardless of its
// categories.
var breakingTerms = []string{"breaking", "deprecat", "security", "critical", "urgent"}

// ExtractKeywords collects classification keywords for a feed item:
// explicit categories lower-cased, plus any breaking term found in the
// title or snippet.
func ExtractKeywords(item RawFeedItem) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, len(item.Categories))

	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}

	for _, cat := range item.Categories {
		add(strings.ToLower(cat))
	}

	content := strings.ToLower(item.Title + " " + item.Snippet)
	for _, term := range breakingTerms {
		if strings.Contains(content, term) {
			add(term)
		}
	}

	return keywords
}
