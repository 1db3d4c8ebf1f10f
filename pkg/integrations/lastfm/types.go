package lastfm

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Event is a concert or festival recommended by Last.fm.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artists   []string  `json:"artists"`
	Headliner string    `json:"headliner"`
	Venue     Venue     `json:"venue"`
	Start     time.Time `json:"start"`
	Image     string    `json:"image,omitempty"`
	URL       string    `json:"url,omitempty"`
}

// Venue is where an event takes place.
type Venue struct {
	Name       string  `json:"name"`
	City       string  `json:"city,omitempty"`
	Street     string  `json:"street,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
	Lat        float64 `json:"lat,omitempty"`
	Long       float64 `json:"long,omitempty"`
	HasGeo     bool    `json:"has_geo,omitempty"`
}

// Session is the result of a completed desktop auth flow.
type Session struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// startLayout is the format of event start dates.
const startLayout = "Mon, 02 Jan 2006 15:04:05"

// oneOrMany decodes a field Last.fm sends as a single object when there is
// one element and as an array otherwise.
type oneOrMany[T any] []T

func (m *oneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = nil
		return nil
	}
	if b[0] == '[' {
		var many []T
		if err := json.Unmarshal(b, &many); err != nil {
			return err
		}
		*m = many
		return nil
	}
	var one T
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*m = []T{one}
	return nil
}

// flexFloat decodes numbers Last.fm sometimes sends as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type apiError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

type apiImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type apiEvent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Artists struct {
		Artist    oneOrMany[string] `json:"artist"`
		Headliner string            `json:"headliner"`
	} `json:"artists"`
	Venue struct {
		Name     string `json:"name"`
		Location struct {
			Point struct {
				Lat  flexFloat `json:"geo:lat"`
				Long flexFloat `json:"geo:long"`
			} `json:"geo:point"`
			City       string `json:"city"`
			Street     string `json:"street"`
			PostalCode string `json:"postalcode"`
		} `json:"location"`
	} `json:"venue"`
	StartDate string              `json:"startDate"`
	Image     oneOrMany[apiImage] `json:"image"`
	URL       string              `json:"url"`
}

type eventsResponse struct {
	apiError
	Events struct {
		Event oneOrMany[apiEvent] `json:"event"`
	} `json:"events"`
}

type tokenResponse struct {
	apiError
	Token string `json:"token"`
}

type sessionResponse struct {
	apiError
	Session Session `json:"session"`
}

// imagePreference lists image sizes from most to least suitable for a
// quarter-inch thumbnail.
var imagePreference = []string{"medium", "small", "large", "extralarge"}

func (e apiEvent) toEvent(loc *time.Location) Event {
	ev := Event{
		ID:        e.ID,
		Title:     e.Title,
		Artists:   []string(e.Artists.Artist),
		Headliner: e.Artists.Headliner,
		URL:       e.URL,
		Venue: Venue{
			Name:       e.Venue.Name,
			City:       e.Venue.Location.City,
			Street:     e.Venue.Location.Street,
			PostalCode: e.Venue.Location.PostalCode,
			Lat:        float64(e.Venue.Location.Point.Lat),
			Long:       float64(e.Venue.Location.Point.Long),
		},
	}
	ev.Venue.HasGeo = ev.Venue.Lat != 0 || ev.Venue.Long != 0
	if t, err := time.ParseInLocation(startLayout, e.StartDate, loc); err == nil {
		ev.Start = t
	}

	sizes := make(map[string]string, len(e.Image))
	for _, img := range e.Image {
		if img.URL != "" {
			sizes[img.Size] = img.URL
		}
	}
	for _, s := range imagePreference {
		if u, ok := sizes[s]; ok {
			ev.Image = u
			break
		}
	}
	return ev
}
