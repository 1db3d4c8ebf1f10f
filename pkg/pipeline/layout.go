package pipeline

import (
	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// ComputeLayout validates cfg and returns its grid and table.
func ComputeLayout(cfg *config.Config) (*grid.Layout, compose.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, compose.Table{}, err
	}
	gc, err := cfg.Page.GridConfig()
	if err != nil {
		return nil, compose.Table{}, err
	}
	l, err := grid.Compute(gc)
	if err != nil {
		return nil, compose.Table{}, err
	}
	t, err := cfg.Table()
	if err != nil {
		return nil, compose.Table{}, err
	}
	if err := t.Validate(l); err != nil {
		return nil, compose.Table{}, err
	}
	return l, t, nil
}

// PanelInfo describes one panel for display.
type PanelInfo struct {
	ID       string            `json:"id"`
	Label    string            `json:"label,omitempty"`
	Source   string            `json:"source,omitempty"`
	Row      compose.RowClass  `json:"row"`
	Geometry grid.Geometry     `json:"geometry"`
	Rotation *compose.Rotation `json:"rotation,omitempty"`
}

// LayoutInfo describes the page and every panel in drawing order.
type LayoutInfo struct {
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Columns  int         `json:"columns"`
	Rows     int         `json:"rows"`
	Overlaps string      `json:"overlaps,omitempty"`
	Panels   []PanelInfo `json:"panels"`
}

// Describe computes the layout of cfg without fetching anything.
func Describe(cfg *config.Config) (*LayoutInfo, error) {
	l, t, err := ComputeLayout(cfg)
	if err != nil {
		return nil, err
	}

	sources := make(map[grid.PanelID]string)
	for _, s := range cfg.ResolvedSlots() {
		sources[grid.PanelID{Column: s.Column, Row: s.Row}] = s.Source
	}

	info := &LayoutInfo{
		Width:   l.PageWidth(),
		Height:  l.PageHeight(),
		Columns: l.Columns(),
		Rows:    l.Rows(),
	}
	if id, ok := l.Overlaps(); ok {
		info.Overlaps = id.String()
	}

	// Every panel gets an (empty) entry so the plan covers the whole grid.
	contents := make(compose.Contents, l.Len())
	for _, g := range l.Panels() {
		contents[g.ID] = nil
	}
	instrs, err := compose.Plan(l, t, contents)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "plan layout")
	}
	for _, in := range instrs {
		info.Panels = append(info.Panels, PanelInfo{
			ID:       in.Slot.Panel.String(),
			Label:    in.Slot.Label,
			Source:   sources[in.Slot.Panel],
			Row:      in.Slot.Row,
			Geometry: in.Geometry,
			Rotation: in.Rotation,
		})
	}
	return info, nil
}
