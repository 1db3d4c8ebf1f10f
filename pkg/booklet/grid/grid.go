package grid

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// PanelID addresses a panel by grid column and row, both zero-based.
// It is comparable and used as a map key throughout the booklet packages.
type PanelID struct {
	Column int `json:"column" toml:"column"`
	Row    int `json:"row" toml:"row"`
}

// String renders the id as "column-row", the form used in log output.
func (id PanelID) String() string { return fmt.Sprintf("%d-%d", id.Column, id.Row) }

// Compare orders ids by ascending column, then ascending row.
func (id PanelID) Compare(other PanelID) int {
	if c := cmp.Compare(id.Column, other.Column); c != 0 {
		return c
	}
	return cmp.Compare(id.Row, other.Row)
}

// Padding is the inset applied on each side of a panel before content is drawn.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform returns the same padding on all four sides.
func Uniform(p float64) Padding { return Padding{Top: p, Right: p, Bottom: p, Left: p} }

// Geometry is the rectangle of one panel in page units.
type Geometry struct {
	ID      PanelID `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding Padding `json:"padding"`
	Spread  bool    `json:"spread,omitempty"`
}

// Right returns the x coordinate of the panel's right edge.
func (g Geometry) Right() float64 { return g.X + g.Width }

// Bottom returns the y coordinate of the panel's bottom edge.
func (g Geometry) Bottom() float64 { return g.Y + g.Height }

// Inner returns the content box left after padding is removed.
func (g Geometry) Inner() (x, y, w, h float64) {
	return g.X + g.Padding.Left,
		g.Y + g.Padding.Top,
		g.Width - g.Padding.Left - g.Padding.Right,
		g.Height - g.Padding.Top - g.Padding.Bottom
}

// Config holds the inputs of the grid computation.
type Config struct {
	Width   float64  // page width
	Height  float64  // page height
	Columns int      // X, must be > 0
	Rows    int      // Y, must be > 0
	Padding float64  // uniform padding P, must be >= 0
	Spread  *PanelID // optional double-width, zero-padding panel
}

// Validate checks the configuration without computing any geometry.
func (c Config) Validate() error {
	if c.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid needs at least one column, got %d", c.Columns)
	}
	if c.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid needs at least one row, got %d", c.Rows)
	}
	if !(c.Width > 0) || math.IsInf(c.Width, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "page width must be positive, got %v", c.Width)
	}
	if !(c.Height > 0) || math.IsInf(c.Height, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "page height must be positive, got %v", c.Height)
	}
	if !(c.Padding >= 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative, got %v", c.Padding)
	}
	if s := c.Spread; s != nil {
		if !c.contains(*s) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"spread panel %s lies outside the %dx%d grid", s, c.Columns, c.Rows)
		}
		if s.Column == c.Columns-1 {
			return errors.New(errors.ErrCodeInvalidConfig,
				"spread panel %s is in the last column and would extend past the page", s)
		}
	}
	return nil
}

func (c Config) contains(id PanelID) bool {
	return id.Column >= 0 && id.Column < c.Columns && id.Row >= 0 && id.Row < c.Rows
}

// Layout is the computed panel set. It is immutable once returned by Compute.
type Layout struct {
	cfg        Config
	baseWidth  float64
	baseHeight float64
	panels     map[PanelID]Geometry
}

// Compute derives the geometry of every panel in the grid.
//
// The result covers every (column, row) pair exactly once. Non-spread panels
// tile the page without gaps or overlaps; the spread panel, if any, also
// covers the slot to its right.
func Compute(cfg Config) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bw := cfg.Width / float64(cfg.Columns)
	bh := cfg.Height / float64(cfg.Rows)

	panels := make(map[PanelID]Geometry, cfg.Columns*cfg.Rows)
	for x := 0; x < cfg.Columns; x++ {
		for y := 0; y < cfg.Rows; y++ {
			id := PanelID{Column: x, Row: y}
			g := Geometry{
				ID:      id,
				X:       float64(x) * bw,
				Y:       float64(y) * bh,
				Width:   bw,
				Height:  bh,
				Padding: Uniform(cfg.Padding),
			}
			if cfg.Spread != nil && *cfg.Spread == id {
				g.Width = 2 * bw
				g.Padding = Padding{}
				g.Spread = true
			}
			panels[id] = g
		}
	}

	return &Layout{cfg: cfg, baseWidth: bw, baseHeight: bh, panels: panels}, nil
}

// Config returns the configuration the layout was computed from.
func (l *Layout) Config() Config { return l.cfg }

// BaseWidth returns W/X.
func (l *Layout) BaseWidth() float64 { return l.baseWidth }

// BaseHeight returns H/Y.
func (l *Layout) BaseHeight() float64 { return l.baseHeight }

// PageWidth returns W.
func (l *Layout) PageWidth() float64 { return l.cfg.Width }

// PageHeight returns H.
func (l *Layout) PageHeight() float64 { return l.cfg.Height }

// Columns returns X.
func (l *Layout) Columns() int { return l.cfg.Columns }

// Rows returns Y.
func (l *Layout) Rows() int { return l.cfg.Rows }

// Len returns the number of panels, always Columns*Rows.
func (l *Layout) Len() int { return len(l.panels) }

// Contains reports whether id lies inside the grid.
func (l *Layout) Contains(id PanelID) bool { return l.cfg.contains(id) }

// Panel returns the geometry of id.
func (l *Layout) Panel(id PanelID) (Geometry, bool) {
	g, ok := l.panels[id]
	return g, ok
}

// Panels returns every panel ordered by ascending column, then ascending row.
func (l *Layout) Panels() []Geometry {
	out := make([]Geometry, 0, len(l.panels))
	for _, g := range l.panels {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b Geometry) int { return a.ID.Compare(b.ID) })
	return out
}

// Spread returns the spread panel's geometry, if one is configured.
func (l *Layout) Spread() (Geometry, bool) {
	if l.cfg.Spread == nil {
		return Geometry{}, false
	}
	return l.Panel(*l.cfg.Spread)
}

// Overlaps reports the slot covered by the spread panel's second half.
// It returns false when no spread is configured.
func (l *Layout) Overlaps() (PanelID, bool) {
	if l.cfg.Spread == nil {
		return PanelID{}, false
	}
	s := *l.cfg.Spread
	return PanelID{Column: s.Column + 1, Row: s.Row}, true
}
