package integrations

import (
	"net/url"
	"time"

	"github.com/pocketdigest/pocketdigest/pkg/buildinfo"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Sentinels returned by every service client. They carry pkg/errors codes,
// so callers can match either the value or the code.
var (
	ErrNotFound      = errors.New(errors.ErrCodeNotFound, "resource not found")
	ErrNetwork       = errors.New(errors.ErrCodeNetwork, "network error") // transport failure or 5xx
	ErrUnauthorized  = errors.New(errors.ErrCodeUnauthorized, "credentials rejected")
	ErrNotConfigured = errors.New(errors.ErrCodeNotConfigured, "service not configured")
)

// Settings are the HTTP options shared by every service client.
type Settings struct {
	Timeout   time.Duration // per request
	Retries   int           // extra attempts for transient failures; 0 means a single attempt
	UserAgent string
	CacheTTL  time.Duration // how long responses stay cached within a run; 0 keeps them for the run
}

const (
	defaultTimeout = 10 * time.Second
	retryDelay     = 500 * time.Millisecond
	maxRetryDelay  = 5 * time.Second
)

// DefaultSettings returns a 10 second timeout and no retries.
func DefaultSettings() Settings {
	return Settings{Timeout: defaultTimeout, UserAgent: buildinfo.UserAgent()}
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape escapes a single path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
