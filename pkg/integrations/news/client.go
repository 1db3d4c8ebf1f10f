// Package news reads headlines from RSS and Atom feeds.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

// Config lists the feeds to read.
type Config struct {
	Feeds []string `toml:"feeds"`
	Limit int      `toml:"limit"`
}

// DefaultLimit is the number of headlines returned when Config.Limit is unset.
const DefaultLimit = 8

// Item is one headline.
type Item struct {
	Title     string    `json:"title"`
	Link      string    `json:"link,omitempty"`
	Source    string    `json:"source,omitempty"`
	Published time.Time `json:"published"`
}

// Client fetches and parses feeds.
type Client struct {
	*integrations.Client
	cfg Config
}

// NewClient creates a feed reader.
func NewClient(backend cache.Cache, s integrations.Settings, cfg Config) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Client{
		Client: integrations.NewClient(backend, "news:", s, nil),
		cfg:    cfg,
	}
}

// Headlines returns the newest items across all feeds, newest first. Items
// without a date sort after dated ones in feed order.
func (c *Client) Headlines(ctx context.Context, refresh bool) ([]Item, error) {
	if len(c.cfg.Feeds) == 0 {
		return nil, integrations.ErrNotConfigured
	}

	var all []Item
	for _, u := range c.cfg.Feeds {
		items, err := c.Feed(ctx, u, refresh)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Published, all[j].Published
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	if len(all) > c.cfg.Limit {
		all = all[:c.cfg.Limit]
	}
	return all, nil
}

// Feed returns the items of one feed in document order.
func (c *Client) Feed(ctx context.Context, feedURL string, refresh bool) ([]Item, error) {
	var out []Item
	err := c.Cached(ctx, cache.Key("feed", feedURL), refresh, &out, func() error {
		body, err := c.GetText(ctx, feedURL, nil)
		if err != nil {
			return fmt.Errorf("fetch feed %s: %w", feedURL, err)
		}
		feed, err := gofeed.NewParser().ParseString(body)
		if err != nil {
			return fmt.Errorf("parse feed %s: %w", feedURL, err)
		}
		out = out[:0]
		for _, it := range feed.Items {
			title := strings.Join(strings.Fields(it.Title), " ")
			if title == "" {
				continue
			}
			item := Item{Title: title, Link: it.Link, Source: feed.Title}
			switch {
			case it.PublishedParsed != nil:
				item.Published = it.PublishedParsed.UTC()
			case it.UpdatedParsed != nil:
				item.Published = it.UpdatedParsed.UTC()
			}
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
