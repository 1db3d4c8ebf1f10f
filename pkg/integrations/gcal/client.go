// Package gcal reads the day's events from public Google calendars.
package gcal

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Calendar names one calendar and the colour its events are printed in.
type Calendar struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Color string `toml:"color"` // #rrggbb
}

// Config holds the API key and the calendars to read.
type Config struct {
	APIKey    string     `toml:"api_key"`
	Calendars []Calendar `toml:"calendars"`
	BaseURL   string     `toml:"base_url"`
}

// Event is one calendar entry.
type Event struct {
	Calendar string    `json:"calendar"`
	Color    string    `json:"color,omitempty"`
	Summary  string    `json:"summary"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day,omitempty"`
}

// Client provides access to the events endpoint.
type Client struct {
	*integrations.Client
	cfg     Config
	baseURL string
}

// NewClient creates a calendar client.
func NewClient(backend cache.Cache, s integrations.Settings, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "gcal:", s, nil),
		cfg:     cfg,
		baseURL: strings.TrimSuffix(base, "/"),
	}
}

type apiTime struct {
	DateTime time.Time `json:"dateTime"`
	Date     string    `json:"date"`
}

type apiEvent struct {
	Summary string  `json:"summary"`
	Status  string  `json:"status"`
	Start   apiTime `json:"start"`
	End     apiTime `json:"end"`
}

// Day returns the events of every configured calendar that overlap the day
// containing t, in t's location, sorted by start time. All-day events sort
// first.
func (c *Client) Day(ctx context.Context, t time.Time, refresh bool) ([]Event, error) {
	if c.cfg.APIKey == "" || len(c.cfg.Calendars) == 0 {
		return nil, integrations.ErrNotConfigured
	}
	loc := t.Location()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	var all []Event
	for _, cal := range c.cfg.Calendars {
		events, err := c.events(ctx, cal, start, end, refresh)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].AllDay != all[j].AllDay {
			return all[i].AllDay
		}
		return all[i].Start.Before(all[j].Start)
	})
	return all, nil
}

func (c *Client) events(ctx context.Context, cal Calendar, start, end time.Time, refresh bool) ([]Event, error) {
	name := cal.Name
	if name == "" {
		name = cal.ID
	}
	q := url.Values{
		"key":          {c.cfg.APIKey},
		"timeMin":      {start.Format(time.RFC3339)},
		"timeMax":      {end.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, integrations.PathEscape(cal.ID))

	var out []Event
	key := cache.Key("events", cal.ID, start.Format(time.DateOnly))
	err := c.Cached(ctx, key, refresh, &out, func() error {
		var resp struct {
			Items []apiEvent `json:"items"`
		}
		if err := c.GetWithQuery(ctx, endpoint, q, &resp); err != nil {
			return fmt.Errorf("calendar %s: %w", name, err)
		}
		out = out[:0]
		for _, it := range resp.Items {
			if it.Status == "cancelled" {
				continue
			}
			ev := Event{Calendar: name, Color: cal.Color, Summary: strings.TrimSpace(it.Summary)}
			if it.Start.Date != "" {
				ev.AllDay = true
				ev.Start, _ = time.ParseInLocation(time.DateOnly, it.Start.Date, start.Location())
				ev.End, _ = time.ParseInLocation(time.DateOnly, it.End.Date, start.Location())
			} else {
				ev.Start = it.Start.DateTime.In(start.Location())
				ev.End = it.End.DateTime.In(start.Location())
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
