package lastfm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

const (
	defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	authURL        = "https://www.last.fm/api/auth/"
)

// Config holds the API credentials.
type Config struct {
	APIKey     string `toml:"api_key"`
	Secret     string `toml:"secret"`
	SessionKey string `toml:"session_key"`
	BaseURL    string `toml:"base_url"`
}

// Client provides access to the Last.fm API.
type Client struct {
	*integrations.Client
	cfg      Config
	baseURL  string
	location *time.Location
}

// NewClient creates a Last.fm client. Event times are interpreted in the
// local time zone.
func NewClient(backend cache.Cache, s integrations.Settings, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		Client:   integrations.NewClient(backend, "lastfm:", s, nil),
		cfg:      cfg,
		baseURL:  base,
		location: time.Local,
	}
}

// SetLocation sets the time zone event start times are read in.
func (c *Client) SetLocation(loc *time.Location) {
	if loc != nil {
		c.location = loc
	}
}

// RecommendedEvents returns up to limit events Last.fm recommends for the
// session's user.
func (c *Client) RecommendedEvents(ctx context.Context, limit int, refresh bool) ([]Event, error) {
	if c.cfg.APIKey == "" || c.cfg.Secret == "" || c.cfg.SessionKey == "" {
		return nil, fmt.Errorf("%w: lastfm needs api_key, secret and session_key", integrations.ErrNotConfigured)
	}

	params := url.Values{
		"limit": {strconv.Itoa(limit)},
		"sk":    {c.cfg.SessionKey},
	}

	var events []Event
	err := c.Cached(ctx, "events:"+strconv.Itoa(limit), refresh, &events, func() error {
		var resp eventsResponse
		if err := c.call(ctx, "user.getRecommendedEvents", params, &resp, &resp.apiError); err != nil {
			return err
		}
		events = events[:0]
		for _, e := range resp.Events.Event {
			events = append(events, e.toEvent(c.location))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Token starts the desktop auth flow.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.cfg.APIKey == "" || c.cfg.Secret == "" {
		return "", fmt.Errorf("%w: lastfm needs api_key and secret", integrations.ErrNotConfigured)
	}
	var resp tokenResponse
	if err := c.call(ctx, "auth.getToken", url.Values{}, &resp, &resp.apiError); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// AuthURL is the page where the user grants access for token.
func (c *Client) AuthURL(token string) string {
	q := url.Values{"api_key": {c.cfg.APIKey}, "token": {token}}
	return authURL + "?" + q.Encode()
}

// Session exchanges an authorised token for a permanent session key.
func (c *Client) Session(ctx context.Context, token string) (Session, error) {
	var resp sessionResponse
	if err := c.call(ctx, "auth.getSession", url.Values{"token": {token}}, &resp, &resp.apiError); err != nil {
		return Session{}, err
	}
	return resp.Session, nil
}

// call signs and performs one API method, decoding into v. apiErr must point
// into v so the service's error envelope can be checked.
func (c *Client) call(ctx context.Context, method string, params url.Values, v any, apiErr *apiError) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("method", method)
	q.Set("api_key", c.cfg.APIKey)
	q.Set("api_sig", Sign(q, c.cfg.Secret))
	q.Set("format", "json")

	if err := c.GetWithQuery(ctx, c.baseURL, q, v); err != nil {
		return fmt.Errorf("lastfm %s: %w", method, err)
	}
	if apiErr.Code != 0 {
		return serviceError(method, *apiErr)
	}
	return nil
}

// Last.fm error codes that mean the credentials are wrong or revoked.
var authErrors = map[int]bool{4: true, 9: true, 10: true, 14: true, 15: true, 26: true}

func serviceError(method string, e apiError) error {
	base := integrations.ErrNetwork
	if authErrors[e.Code] {
		base = integrations.ErrUnauthorized
	} else if e.Code == 6 {
		base = integrations.ErrNotFound
	}
	return fmt.Errorf("%w: lastfm %s: error %d: %s", base, method, e.Code, e.Message)
}

// Sign computes the api_sig of params. The format and callback parameters
// are not signed.
func Sign(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "format" || k == "callback" || k == "api_sig" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(params.Get(k))
	}
	sb.WriteString(secret)

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
