// Package tfl provides a client for the Transport for London unified API.
package tfl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

const defaultBaseURL = "https://api.tfl.gov.uk"

// GoodService is the severity TfL reports for a line running normally.
const GoodService = 10

// Config holds the API credentials and the transport modes to report.
type Config struct {
	AppKey  string   `toml:"app_key"`
	Modes   []string `toml:"modes"`
	BaseURL string   `toml:"base_url"`
}

// LineStatus is the current state of one line.
type LineStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Severity    int    `json:"severity"`
	Description string `json:"description"`
	Reason      string `json:"reason,omitempty"`
}

// Good reports whether the line has no disruption.
func (s LineStatus) Good() bool { return s.Severity == GoodService }

// Client provides access to the line status endpoints.
type Client struct {
	*integrations.Client
	cfg     Config
	baseURL string
}

// NewClient creates a TfL client. Without configured modes it reports the tube.
func NewClient(backend cache.Cache, s integrations.Settings, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = []string{"tube"}
	}
	return &Client{
		Client:  integrations.NewClient(backend, "tfl:", s, nil),
		cfg:     cfg,
		baseURL: strings.TrimSuffix(base, "/"),
	}
}

type apiLine struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LineStatuses []struct {
		StatusSeverity            int    `json:"statusSeverity"`
		StatusSeverityDescription string `json:"statusSeverityDescription"`
		Reason                    string `json:"reason"`
	} `json:"lineStatuses"`
}

// Status returns the status of every line of the configured modes. A line
// with several concurrent statuses reports the most severe, which TfL gives
// the lowest severity number.
func (c *Client) Status(ctx context.Context, refresh bool) ([]LineStatus, error) {
	escaped := make([]string, len(c.cfg.Modes))
	for i, m := range c.cfg.Modes {
		escaped[i] = integrations.PathEscape(m)
	}
	modes := strings.Join(c.cfg.Modes, ",")
	endpoint := fmt.Sprintf("%s/Line/Mode/%s/Status", c.baseURL, strings.Join(escaped, ","))

	var q url.Values
	if c.cfg.AppKey != "" {
		q = url.Values{"app_key": {c.cfg.AppKey}}
	}

	var out []LineStatus
	err := c.Cached(ctx, "status:"+modes, refresh, &out, func() error {
		var lines []apiLine
		if err := c.GetWithQuery(ctx, endpoint, q, &lines); err != nil {
			return fmt.Errorf("tfl status %s: %w", modes, err)
		}
		out = out[:0]
		for _, l := range lines {
			s := LineStatus{ID: l.ID, Name: l.Name}
			for i, st := range l.LineStatuses {
				if i == 0 || st.StatusSeverity < s.Severity {
					s.Severity = st.StatusSeverity
					s.Description = st.StatusSeverityDescription
					s.Reason = st.Reason
				}
			}
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
