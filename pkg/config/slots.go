package config

import (
	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/sources"
)

// pocketmodSources is the default source of each pocketmod panel.
var pocketmodSources = map[grid.PanelID]*sources.Source{
	{Column: 0, Row: 0}: sources.Transit,
	{Column: 1, Row: 0}: sources.Events,
	{Column: 2, Row: 0}: sources.Headlines,
	{Column: 3, Row: 0}: sources.Calendar,
	{Column: 0, Row: 1}: sources.Feed,
	{Column: 1, Row: 1}: sources.Weather,
	{Column: 2, Row: 1}: sources.Label,
	{Column: 3, Row: 1}: sources.Photo,
}

// DefaultSlots returns the pocketmod source assignment with the pocketmod
// page labels, in panel order.
func DefaultSlots() []Slot {
	labels := compose.Pocketmod().Labels
	var slots []Slot
	for col := 0; col < compose.PocketmodColumns; col++ {
		for row := 0; row < compose.PocketmodRows; row++ {
			id := grid.PanelID{Column: col, Row: row}
			slots = append(slots, Slot{Column: col, Row: row, Label: labels[id], Source: pocketmodSources[id].Name})
		}
	}
	return slots
}

func (p Page) isPocketmod() bool {
	return p.Columns == compose.PocketmodColumns && p.Rows == compose.PocketmodRows
}

// ResolvedSlots returns the configured slots, or a default assignment when
// none are configured: the pocketmod slots for a 4x2 grid, otherwise a label
// in every panel.
func (c *Config) ResolvedSlots() []Slot {
	if len(c.Slots) > 0 {
		return c.Slots
	}
	if c.Page.isPocketmod() {
		return DefaultSlots()
	}
	var slots []Slot
	for col := 0; col < c.Page.Columns; col++ {
		for row := 0; row < c.Page.Rows; row++ {
			id := grid.PanelID{Column: col, Row: row}
			slots = append(slots, Slot{Column: col, Row: row, Label: id.String(), Source: sources.Label.Name})
		}
	}
	return slots
}

// Table returns the row classes and panel labels for the page. Without
// configured row classes a pocketmod grid uses its own and any other grid
// draws every row upright.
func (c *Config) Table() (compose.Table, error) {
	t := compose.Table{Labels: make(map[grid.PanelID]string)}

	switch {
	case len(c.Page.RowClasses) > 0:
		for _, s := range c.Page.RowClasses {
			rc, err := compose.ParseRowClass(s)
			if err != nil {
				return compose.Table{}, err
			}
			t.Rows = append(t.Rows, rc)
		}
	case c.Page.isPocketmod():
		t.Rows = compose.Pocketmod().Rows
	default:
		t.Rows = make([]compose.RowClass, max(c.Page.Rows, 0))
	}

	for _, s := range c.ResolvedSlots() {
		if s.Label != "" {
			t.Labels[grid.PanelID{Column: s.Column, Row: s.Row}] = s.Label
		}
	}
	return t, nil
}
