// Package integrations provides HTTP clients for the services a digest pulls
// its content from.
//
// # Overview
//
// Each service has its own subpackage:
//
//   - [lastfm]: recommended events and the desktop auth flow
//   - [tfl]: transit line status
//   - [mastodon]: home timeline
//   - [news]: RSS and Atom headlines
//   - [gcal]: Google Calendar events
//   - [bbcweather]: the BBC five-day forecast page
//   - [flickr]: interesting photos
//   - [gmaps]: static map URLs
//
// # Client Pattern
//
// Service clients embed the shared [Client] and follow one pattern:
//
//	c := lastfm.NewClient(backend, integrations.DefaultSettings(), cfg)
//	events, err := c.RecommendedEvents(ctx, 5, false)  // false = use cache
//
// The shared client handles:
//   - HTTP requests through resty with a per-request timeout
//   - Optional retries for transient failures (off by default)
//   - Response caching for the length of one run
//   - Reporting every request to the observability HTTP hooks
//
// # Errors
//
// Failures wrap one of the sentinels [ErrNotFound], [ErrNetwork],
// [ErrUnauthorized] or [ErrNotConfigured] so callers can tell a missing
// credential from a service outage with [errors.Is].
//
// [lastfm]: github.com/pocketdigest/pocketdigest/pkg/integrations/lastfm
// [tfl]: github.com/pocketdigest/pocketdigest/pkg/integrations/tfl
// [mastodon]: github.com/pocketdigest/pocketdigest/pkg/integrations/mastodon
// [news]: github.com/pocketdigest/pocketdigest/pkg/integrations/news
// [gcal]: github.com/pocketdigest/pocketdigest/pkg/integrations/gcal
// [bbcweather]: github.com/pocketdigest/pocketdigest/pkg/integrations/bbcweather
// [flickr]: github.com/pocketdigest/pocketdigest/pkg/integrations/flickr
// [gmaps]: github.com/pocketdigest/pocketdigest/pkg/integrations/gmaps
package integrations
