// Package config loads the digest configuration from TOML.
//
// The file names the page, its grid, which source fills each panel and the
// credentials of every service:
//
//	[page]
//	size = "A4"
//	orientation = "landscape"
//	columns = 4
//	rows = 2
//	padding = 10
//
//	[[slot]]
//	column = 1
//	row = 0
//	label = "2 right"
//	source = "events"
//	options = { limit = 5 }
//
//	[lastfm]
//	api_key = "..."
//
// A sibling file with ".local" before the extension (pocketdigest.local.toml)
// is merged on top, so secrets can live outside the shared file.
package config

import (
	"time"

	"github.com/pocketdigest/pocketdigest/pkg/integrations"
	"github.com/pocketdigest/pocketdigest/pkg/sources"
)

// Config is the complete digest configuration.
type Config struct {
	Page      Page      `toml:"page"`
	Slots     []Slot    `toml:"slot"`
	HTTP      HTTP      `toml:"http"`
	Telemetry Telemetry `toml:"telemetry"`
	Server    Server    `toml:"server"`

	sources.Services

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// Page describes the sheet and its grid.
type Page struct {
	Size        string   `toml:"size"`        // A4, A5, Letter or Legal
	Orientation string   `toml:"orientation"` // landscape or portrait
	Width       float64  `toml:"width"`       // points; with Height overrides Size
	Height      float64  `toml:"height"`
	Columns     int      `toml:"columns"`
	Rows        int      `toml:"rows"`
	Padding     float64  `toml:"padding"`
	Spread      []int    `toml:"spread"`      // [column, row]
	RowClasses  []string `toml:"row_classes"` // "top" or "bottom" per row
	Output      string   `toml:"output"`
	Boundaries  bool     `toml:"boundaries"`
	Title       string   `toml:"title"`
	TimeZone    string   `toml:"timezone"`
}

// Slot assigns a source to one panel.
type Slot struct {
	Column  int            `toml:"column"`
	Row     int            `toml:"row"`
	Label   string         `toml:"label"`
	Source  string         `toml:"source"`
	Options map[string]any `toml:"options"`
}

// HTTP configures the service clients.
type HTTP struct {
	Timeout   time.Duration `toml:"timeout"`
	Retries   int           `toml:"retries"`
	UserAgent string        `toml:"user_agent"`

	// CacheTTL bounds how long a response is reused. Zero keeps it for the
	// life of the cache, which for render is one run.
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// Telemetry configures trace export.
type Telemetry struct {
	Endpoint    string `toml:"endpoint"` // OTLP/HTTP host:port; empty disables tracing
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"service_name"`
}

// Server configures the preview server.
type Server struct {
	Addr string `toml:"addr"`
}

// Default values.
const (
	DefaultOutput  = "digest.pdf"
	DefaultPadding = 10
	DefaultAddr    = "127.0.0.1:8080"

	// DefaultServerCacheTTL applies to the preview server when http.cache_ttl
	// is unset, since its cache outlives a single run.
	DefaultServerCacheTTL = 5 * time.Minute
)

// Default returns the configuration of the classic pocketmod digest: a
// landscape A4 sheet folded into eight panels.
func Default() *Config {
	s := integrations.DefaultSettings()
	return &Config{
		Page: Page{
			Size:        "A4",
			Orientation: "landscape",
			Columns:     4,
			Rows:        2,
			Padding:     DefaultPadding,
			Output:      DefaultOutput,
			Boundaries:  true,
			Title:       "Daily digest",
		},
		HTTP: HTTP{
			Timeout:   s.Timeout,
			Retries:   s.Retries,
			UserAgent: s.UserAgent,
		},
		Telemetry: Telemetry{ServiceName: "pocketdigest"},
		Server:    Server{Addr: DefaultAddr},
	}
}

// Settings returns the HTTP settings for service clients.
func (c *Config) Settings() integrations.Settings {
	s := integrations.DefaultSettings()
	if c.HTTP.Timeout > 0 {
		s.Timeout = c.HTTP.Timeout
	}
	if c.HTTP.Retries > 0 {
		s.Retries = c.HTTP.Retries
	}
	if c.HTTP.UserAgent != "" {
		s.UserAgent = c.HTTP.UserAgent
	}
	s.CacheTTL = c.HTTP.CacheTTL
	return s
}

// Location returns the time zone the digest is dated in.
func (c *Config) Location() *time.Location {
	if c.Page.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Page.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
