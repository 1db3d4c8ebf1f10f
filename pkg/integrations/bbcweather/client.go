// Package bbcweather scrapes the multi-day forecast from BBC Weather.
package bbcweather

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

const defaultBaseURL = "https://www.bbc.co.uk/weather"

// Config names the forecast location, a BBC location id such as 2643743.
type Config struct {
	Location string `toml:"location"`
	Days     int    `toml:"days"`
	BaseURL  string `toml:"base_url"`
}

// DefaultDays is the number of forecast days returned when Config.Days is unset.
const DefaultDays = 5

// Day is the forecast for one day. Temperatures are as printed, e.g. "14°";
// the low is empty when the page shows only one value.
type Day struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	High    string `json:"high,omitempty"`
	Low     string `json:"low,omitempty"`
}

// Client fetches forecast pages.
type Client struct {
	*integrations.Client
	cfg     Config
	baseURL string
}

// NewClient creates a forecast scraper.
func NewClient(backend cache.Cache, s integrations.Settings, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	return &Client{
		Client:  integrations.NewClient(backend, "bbcweather:", s, nil),
		cfg:     cfg,
		baseURL: strings.TrimSuffix(base, "/"),
	}
}

// Forecast returns the next days of the configured location's forecast.
func (c *Client) Forecast(ctx context.Context, refresh bool) ([]Day, error) {
	if c.cfg.Location == "" {
		return nil, integrations.ErrNotConfigured
	}
	page := c.baseURL + "/" + integrations.PathEscape(c.cfg.Location)

	var out []Day
	err := c.Cached(ctx, "forecast:"+c.cfg.Location, refresh, &out, func() error {
		body, err := c.GetText(ctx, page, nil)
		if err != nil {
			return fmt.Errorf("weather %s: %w", c.cfg.Location, err)
		}
		days, err := ParseForecast(body)
		if err != nil {
			return fmt.Errorf("weather %s: %w", c.cfg.Location, err)
		}
		out = days
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) > c.cfg.Days {
		out = out[:c.cfg.Days]
	}
	return out, nil
}

// ParseForecast extracts the day tabs of a forecast page.
func ParseForecast(html string) ([]Day, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var days []Day
	doc.Find(".wr-day").Each(func(_ int, s *goquery.Selection) {
		d := Day{
			Name:    clean(s.Find(".wr-day__title").First().Text()),
			Summary: clean(s.Find(".wr-day__weather-type-description").First().Text()),
			High:    clean(s.Find(".wr-day-temperature__high .wr-value--temperature--c").First().Text()),
			Low:     clean(s.Find(".wr-day-temperature__low .wr-value--temperature--c").First().Text()),
		}
		if d.Name == "" {
			return
		}
		days = append(days, d)
	})
	if len(days) == 0 {
		return nil, fmt.Errorf("no forecast days found: %w", integrations.ErrNotFound)
	}
	return days, nil
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
