package compose

import (
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// RowClass says whether a grid row is printed upright or upside-down.
type RowClass int

const (
	// RowBottom rows are drawn upright.
	RowBottom RowClass = iota
	// RowTop rows are rotated by half a turn before drawing.
	RowTop
)

func (c RowClass) String() string {
	switch c {
	case RowTop:
		return "top"
	case RowBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// ParseRowClass parses "top" or "bottom", ignoring case.
func ParseRowClass(s string) (RowClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return RowTop, nil
	case "bottom":
		return RowBottom, nil
	}
	return RowBottom, errors.New(errors.ErrCodeInvalidConfig, "unknown row class %q (want top or bottom)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c RowClass) MarshalText() ([]byte, error) {
	if c != RowTop && c != RowBottom {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid row class %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RowClass) UnmarshalText(b []byte) error {
	v, err := ParseRowClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Table is the static description of a booklet: the class of every row and
// the page label of every panel.
type Table struct {
	Rows   []RowClass              // indexed by grid row
	Labels map[grid.PanelID]string // optional
}

// Class returns the row class of row, defaulting to RowBottom for rows the
// table does not list.
func (t Table) Class(row int) RowClass {
	if row < 0 || row >= len(t.Rows) {
		return RowBottom
	}
	return t.Rows[row]
}

// Label returns the page label of id.
func (t Table) Label(id grid.PanelID) string { return t.Labels[id] }

// Validate checks the table against a computed layout.
func (t Table) Validate(l *grid.Layout) error {
	if len(t.Rows) != l.Rows() {
		return errors.New(errors.ErrCodeInvalidConfig,
			"row table lists %d rows but the grid has %d", len(t.Rows), l.Rows())
	}
	for i, c := range t.Rows {
		if c != RowTop && c != RowBottom {
			return errors.New(errors.ErrCodeInvalidConfig, "row %d has invalid class %d", i, int(c))
		}
	}
	for id := range t.Labels {
		if !l.Contains(id) {
			return errors.New(errors.ErrCodeInvalidConfig, "label for panel %s lies outside the grid", id)
		}
	}
	return nil
}

// Pocketmod columns and rows.
const (
	PocketmodColumns = 4
	PocketmodRows    = 2
)

// Pocketmod returns the table for the standard eight-page booklet folded from
// one landscape sheet: the upper row is printed upside-down.
func Pocketmod() Table {
	return Table{
		Rows: []RowClass{RowTop, RowBottom},
		Labels: map[grid.PanelID]string{
			{Column: 0, Row: 0}: "1 left",
			{Column: 1, Row: 0}: "2 right",
			{Column: 2, Row: 0}: "3 left",
			{Column: 3, Row: 0}: "4 right",
			{Column: 0, Row: 1}: "5 left",
			{Column: 1, Row: 1}: "6 right",
			{Column: 2, Row: 1}: "Back",
			{Column: 3, Row: 1}: "Front",
		},
	}
}
