// Package flickr fetches photos from Flickr's interestingness list.
package flickr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

const defaultBaseURL = "https://api.flickr.com/services/rest/"

// Config holds the API key.
type Config struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Photo is one photo with its medium-size rendition.
type Photo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Owner  string `json:"owner"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Client provides access to the Flickr REST API.
type Client struct {
	*integrations.Client
	cfg     Config
	baseURL string
}

// NewClient creates a Flickr client.
func NewClient(backend cache.Cache, s integrations.Settings, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "flickr:", s, nil),
		cfg:     cfg,
		baseURL: base,
	}
}

// flexInt decodes sizes Flickr sends either as numbers or strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

type listResponse struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Photos  struct {
		Photo []struct {
			ID        string  `json:"id"`
			Title     string  `json:"title"`
			OwnerName string  `json:"ownername"`
			URL       string  `json:"url_m"`
			Width     flexInt `json:"width_m"`
			Height    flexInt `json:"height_m"`
		} `json:"photo"`
	} `json:"photos"`
}

// Interesting returns up to limit photos from today's interestingness list.
// Photos without a medium rendition are skipped.
func (c *Client) Interesting(ctx context.Context, limit int, refresh bool) ([]Photo, error) {
	if c.cfg.APIKey == "" {
		return nil, integrations.ErrNotConfigured
	}
	if limit <= 0 {
		limit = 1
	}

	var out []Photo
	err := c.Cached(ctx, "interesting:"+strconv.Itoa(limit), refresh, &out, func() error {
		q := url.Values{
			"method":         {"flickr.interestingness.getList"},
			"api_key":        {c.cfg.APIKey},
			"extras":         {"url_m,owner_name"},
			"per_page":       {strconv.Itoa(limit)},
			"format":         {"json"},
			"nojsoncallback": {"1"},
		}
		var resp listResponse
		if err := c.GetWithQuery(ctx, c.baseURL, q, &resp); err != nil {
			return fmt.Errorf("flickr interestingness: %w", err)
		}
		if resp.Stat != "ok" {
			return serviceError(resp.Code, resp.Message)
		}
		out = out[:0]
		for _, p := range resp.Photos.Photo {
			if p.URL == "" {
				continue
			}
			out = append(out, Photo{
				ID:     p.ID,
				Title:  strings.TrimSpace(p.Title),
				Owner:  p.OwnerName,
				URL:    p.URL,
				Width:  int(p.Width),
				Height: int(p.Height),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Codes 98 and 100 are Flickr's invalid login and invalid key errors.
func serviceError(code int, msg string) error {
	switch code {
	case 98, 100:
		return fmt.Errorf("flickr error %d: %s: %w", code, msg, integrations.ErrUnauthorized)
	default:
		return fmt.Errorf("flickr error %d: %s: %w", code, msg, integrations.ErrNetwork)
	}
}
