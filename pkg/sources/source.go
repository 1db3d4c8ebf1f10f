package sources

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/bbcweather"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/flickr"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/gcal"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/gmaps"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/lastfm"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/mastodon"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/news"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/tfl"
)

// Services holds the credentials and options of every service client.
type Services struct {
	LastFM   lastfm.Config     `toml:"lastfm"`
	TfL      tfl.Config        `toml:"tfl"`
	Mastodon mastodon.Config   `toml:"mastodon"`
	News     news.Config       `toml:"news"`
	Calendar gcal.Config       `toml:"calendar"`
	Weather  bbcweather.Config `toml:"weather"`
	Flickr   flickr.Config     `toml:"flickr"`
	GMaps    gmaps.Config      `toml:"gmaps"`
}

// Slot is the panel a producer fills.
type Slot struct {
	Label    string
	Geometry grid.Geometry
	Options  Options
}

// Env is everything a source needs to build a producer.
type Env struct {
	Services Services
	Cache    cache.Cache
	Settings integrations.Settings
	Slot     Slot
	Now      time.Time
	Refresh  bool
	Logger   *log.Logger
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

func (e Env) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}

// available returns the slot's content box size.
func (e Env) available() (float64, float64) {
	_, _, w, h := e.Slot.Geometry.Inner()
	return max(w, 0), max(h, 0)
}

// Source describes one kind of panel content.
type Source struct {
	Name        string
	Description string
	Aliases     []string
	New         func(env Env) content.Producer
}

// All lists every source in display order.
var All = []*Source{
	Transit,
	Events,
	Headlines,
	Calendar,
	Feed,
	Weather,
	Photo,
	Label,
}

// Find returns the source called name or one of its aliases, or nil.
func Find(name string) *Source {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All {
		if s.Name == name || slices.Contains(s.Aliases, name) {
			return s
		}
	}
	return nil
}

// Names returns the canonical source names.
func Names() []string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = s.Name
	}
	return names
}

// Lookup is Find with an error naming the available sources.
func Lookup(name string) (*Source, error) {
	if s := Find(name); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Options are the per-slot settings from the configuration file.
type Options map[string]any

// Int returns the integer option key, or def when unset or not a number.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// String returns the string option key, or def when unset.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Bool returns the boolean option key, or def when unset.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// heading returns the title block of a list panel. The "title" option
// overrides def; an empty title yields no block.
func heading(env Env, def string) []content.Block {
	return content.Label(env.Slot.Options.String("title", def))
}
