package sources

import (
	"context"
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/gmaps"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/lastfm"
)

const (
	defaultEventLimit = 5
	eventImageSize    = 18 // a quarter inch
	mapGap            = 6
)

// Events lists Last.fm's recommended events under a map of their venues.
//
// Options: limit.
var Events = &Source{
	Name:        "events",
	Description: "Last.fm recommended events with a venue map",
	Aliases:     []string{"lastfm"},
	New: func(env Env) content.Producer {
		c := lastfm.NewClient(env.Cache, env.Settings, env.Services.LastFM)
		maps := gmaps.New(env.Services.GMaps)
		limit := env.Slot.Options.Int("limit", defaultEventLimit)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			events, err := c.RecommendedEvents(ctx, limit, env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatEvents(env, maps, events), nil
		})
	},
}

func formatEvents(env Env, maps *gmaps.StaticMap, events []lastfm.Event) []content.Block {
	var (
		blocks  []content.Block
		markers []gmaps.Marker
	)
	for i, e := range events {
		n := i + 1
		if e.Venue.HasGeo {
			markers = append(markers, gmaps.Marker{Lat: e.Venue.Lat, Long: e.Venue.Long, Label: markerLabel(n)})
		}
		blocks = append(blocks, eventBlock(n, e))
	}

	if maps.Configured() && len(markers) > 0 {
		w, h := env.available()
		mapW, mapH := int(w), int(h/3)
		if u := maps.URL(mapW, mapH, markers); u != "" {
			head := []content.Block{
				content.Image{URL: u, Width: float64(mapW), Height: float64(mapH), Alt: "Event map unavailable"},
				content.Spacer{Width: float64(mapW), Height: mapGap},
			}
			blocks = append(head, blocks...)
		}
	}
	if len(blocks) == 0 {
		return content.Label("No recommended events")
	}
	return blocks
}

// eventBlock renders "N. <b>title</b> Fri 7:30pm", then artists and venue.
func eventBlock(n int, e lastfm.Event) content.Text {
	when := e.Start.Format("Mon") + " " + strings.ToLower(e.Start.Format("3:04PM"))

	where := strings.Join(e.Artists, ", ") + " at " + e.Venue.Name
	if e.Venue.PostalCode != "" {
		where += " " + e.Venue.PostalCode
	}

	t := content.Paragraph(content.StyleEvent,
		content.Plain("%d. ", n),
		content.Bold("%s", e.Title),
		content.Plain(" %s", when),
		content.Break(),
		content.Plain("%s", where),
	)
	if e.Image != "" {
		t.Image = &content.Image{URL: e.Image, Width: eventImageSize, Height: eventImageSize}
	}
	return t
}

// markerLabel maps 1..9 to digits and later events to letters, the only
// single characters the map API prints.
func markerLabel(n int) string {
	switch {
	case n >= 1 && n <= 9:
		return string(rune('0' + n))
	case n >= 10 && n < 36:
		return string(rune('A' + n - 10))
	default:
		return ""
	}
}
