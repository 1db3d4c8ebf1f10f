package config

import (
	"fmt"
	"time"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
	"github.com/pocketdigest/pocketdigest/pkg/sources"
)

// Validate checks everything that can be checked before a run starts. Every
// failure is an INVALID_CONFIG error.
func (c *Config) Validate() error {
	gc, err := c.Page.GridConfig()
	if err != nil {
		return err
	}
	if err := gc.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateOutputPath(c.Page.Output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "page.output")
	}
	if c.Page.TimeZone != "" {
		if _, err := time.LoadLocation(c.Page.TimeZone); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "page.timezone")
		}
	}
	if c.HTTP.Retries < 0 || c.HTTP.Timeout < 0 || c.HTTP.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http retries, timeout and cache_ttl must not be negative")
	}

	if n := len(c.Page.RowClasses); n > 0 && n != c.Page.Rows {
		return errors.New(errors.ErrCodeInvalidConfig, "row_classes lists %d rows, grid has %d", n, c.Page.Rows)
	}
	if _, err := c.Table(); err != nil {
		return err
	}

	seen := make(map[grid.PanelID]int)
	for i, s := range c.Slots {
		id := grid.PanelID{Column: s.Column, Row: s.Row}
		if s.Column < 0 || s.Column >= c.Page.Columns || s.Row < 0 || s.Row >= c.Page.Rows {
			return errors.New(errors.ErrCodeInvalidConfig, "slot %d: panel %s is outside the %dx%d grid", i+1, id, c.Page.Columns, c.Page.Rows)
		}
		if j, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeInvalidConfig, "slots %d and %d both fill panel %s", j+1, i+1, id)
		}
		seen[id] = i
		if _, err := sources.Lookup(s.Source); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "slot %d", i+1)
		}
	}

	for _, cal := range c.Calendar.Calendars {
		if err := errors.ValidateHexColor(cal.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "calendar %s", cal.ID)
		}
	}
	if s := c.Mastodon.Server; s != "" {
		if err := errors.ValidateURL(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "mastodon.server")
		}
	}
	return nil
}

// String describes the page for logs.
func (p Page) String() string {
	return fmt.Sprintf("%s %s %dx%d", p.Size, p.Orientation, p.Columns, p.Rows)
}
