package gcal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pocketdigest/pocketdigest/pkg/integrations"
)

func TestDay(t *testing.T) {
	queries := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries[r.URL.Path] = r.URL.RawQuery
		switch r.URL.Path {
		case "/calendars/work@example.com/events":
			w.Write([]byte(`{"items":[
				{"summary":"Standup","start":{"dateTime":"2026-10-19T09:30:00Z"},"end":{"dateTime":"2026-10-19T09:45:00Z"}},
				{"summary":"Moved","status":"cancelled","start":{"dateTime":"2026-10-19T11:00:00Z"},"end":{"dateTime":"2026-10-19T12:00:00Z"}}
			]}`))
		case "/calendars/home/events":
			w.Write([]byte(`{"items":[
				{"summary":"Dentist ","start":{"dateTime":"2026-10-19T08:00:00Z"},"end":{"dateTime":"2026-10-19T08:30:00Z"}},
				{"summary":"Bin day","start":{"date":"2026-10-19"},"end":{"date":"2026-10-20"}}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(nil, integrations.DefaultSettings(), Config{
		APIKey:  "key",
		BaseURL: server.URL,
		Calendars: []Calendar{
			{ID: "work@example.com", Name: "Work", Color: "#3366cc"},
			{ID: "home", Color: "#dc3912"},
		},
	})
	day := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	got, err := c.Day(context.Background(), day, true)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}

	want := []Event{
		{Calendar: "home", Color: "#dc3912", Summary: "Bin day", AllDay: true,
			Start: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
		{Calendar: "home", Color: "#dc3912", Summary: "Dentist",
			Start: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)},
		{Calendar: "Work", Color: "#3366cc", Summary: "Standup",
			Start: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC), End: time.Date(2026, 10, 19, 9, 45, 0, 0, time.UTC)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	q := queries["/calendars/work@example.com/events"]
	for _, part := range []string{"timeMin=2026-10-19T00%3A00%3A00Z", "timeMax=2026-10-20T00%3A00%3A00Z", "singleEvents=true", "orderBy=startTime", "key=key"} {
		if !strings.Contains(q, part) {
			t.Errorf("query %q missing %q", q, part)
		}
	}
}

func TestDayNotConfigured(t *testing.T) {
	c := NewClient(nil, integrations.DefaultSettings(), Config{APIKey: "key"})
	if _, err := c.Day(context.Background(), time.Now(), false); !errors.Is(err, integrations.ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestDayMissingCalendar(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClient(nil, integrations.DefaultSettings(), Config{
		APIKey: "key", BaseURL: server.URL, Calendars: []Calendar{{ID: "gone"}},
	})
	if _, err := c.Day(context.Background(), time.Now(), true); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
