package compose

import (
	"slices"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// ContentSlot is the content assigned to one panel.
type ContentSlot struct {
	Panel  grid.PanelID
	Label  string
	Row    RowClass
	Blocks []content.Block
}

// Instruction tells the canvas what to draw where. Rotation is nil for
// upright rows.
type Instruction struct {
	Slot     ContentSlot
	Geometry grid.Geometry
	Rotation *Rotation
}

// Rotated reports whether the instruction carries a transform.
func (in Instruction) Rotated() bool { return in.Rotation != nil }

// Contents maps panels to the blocks fetched for them. A panel present with an
// empty slice is drawn empty; a panel absent from the map is skipped.
type Contents map[grid.PanelID][]content.Block

// Plan assigns contents to panels and emits one instruction per populated
// panel, ordered by ascending column, then ascending row.
func Plan(l *grid.Layout, t Table, contents Contents) ([]Instruction, error) {
	if err := t.Validate(l); err != nil {
		return nil, err
	}
	for id := range contents {
		if !l.Contains(id) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "content assigned to panel %s outside the grid", id)
		}
	}

	rotations := make(map[int]Rotation)
	var out []Instruction
	for _, g := range l.Panels() {
		blocks, ok := contents[g.ID]
		if !ok {
			continue
		}
		row := t.Class(g.ID.Row)
		in := Instruction{
			Slot: ContentSlot{
				Panel:  g.ID,
				Label:  t.Label(g.ID),
				Row:    row,
				Blocks: slices.Clone(blocks),
			},
			Geometry: g,
		}
		if row == RowTop {
			r, ok := rotations[g.ID.Row]
			if !ok {
				r = RotationFor(l, g.ID.Row)
				rotations[g.ID.Row] = r
			}
			in.Rotation = &r
		}
		out = append(out, in)
	}
	return out, nil
}

// SkippedPanels returns the panels of l that have no entry in contents, in
// the same order Plan uses.
func SkippedPanels(l *grid.Layout, contents Contents) []grid.PanelID {
	var out []grid.PanelID
	for _, g := range l.Panels() {
		if _, ok := contents[g.ID]; !ok {
			out = append(out, g.ID)
		}
	}
	return out
}
