// Package gmaps builds Google Static Maps image URLs.
package gmaps

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

	// MaxSize is the largest width or height the API serves at scale 1.
	MaxSize = 640
)

// Config holds the API key.
type Config struct {
	APIKey  string `toml:"api_key"`
	MapType string `toml:"map_type"` // roadmap when empty
	BaseURL string `toml:"base_url"`
}

// Marker is one pin on the map.
type Marker struct {
	Lat, Long float64
	Label     string // a single character
	Color     string // a colour name or 0xRRGGBB; red when empty
}

// StaticMap builds map URLs for one key.
type StaticMap struct {
	cfg Config
}

// New returns a URL builder.
func New(cfg Config) *StaticMap {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MapType == "" {
		cfg.MapType = "roadmap"
	}
	return &StaticMap{cfg: cfg}
}

// Configured reports whether an API key is set.
func (m *StaticMap) Configured() bool { return m.cfg.APIKey != "" }

// URL returns the address of a width x height map showing markers. The map is
// requested at scale 2 so it prints sharply at its drawn size; sizes beyond
// MaxSize are shrunk keeping their aspect ratio. It returns "" when there is
// nothing to show.
func (m *StaticMap) URL(width, height int, markers []Marker) string {
	if width <= 0 || height <= 0 || len(markers) == 0 {
		return ""
	}
	width, height = clampSize(width, height)

	q := url.Values{
		"size":    {fmt.Sprintf("%dx%d", width, height)},
		"scale":   {"2"},
		"maptype": {m.cfg.MapType},
	}
	for _, mk := range markers {
		color := mk.Color
		if color == "" {
			color = "red"
		}
		spec := "color:" + color
		if mk.Label != "" {
			spec += "|label:" + mk.Label
		}
		spec += "|" + strconv.FormatFloat(mk.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(mk.Long, 'f', -1, 64)
		q.Add("markers", spec)
	}
	if m.cfg.APIKey != "" {
		q.Set("key", m.cfg.APIKey)
	}
	return m.cfg.BaseURL + "?" + q.Encode()
}

func clampSize(w, h int) (int, int) {
	if w <= MaxSize && h <= MaxSize {
		return w, h
	}
	if w >= h {
		return MaxSize, max(1, h*MaxSize/w)
	}
	return max(1, w*MaxSize/h), MaxSize
}
