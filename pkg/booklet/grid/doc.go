// Package grid computes the panel subdivision of a booklet page.
//
// # Overview
//
// A page of width W and height H is cut into X columns and Y rows. Each cell
// is a panel addressed by its [PanelID] (column, row). [Compute] returns one
// [Geometry] per panel:
//
//   - base width W/X and base height H/Y, kept as exact float64 quotients;
//     rounding, if any, is left to the drawing backend
//   - origin (column*baseWidth, row*baseHeight), measured from the top-left
//     corner of the page with y growing downwards
//   - uniform padding P on all four sides
//
// # Spread panel
//
// One panel may be configured as the spread. It is twice the base width and
// has zero padding so that content can run across the fold. The grid is not
// compacted around it: every panel keeps its fixed-grid origin, and the spread
// overlays the slot immediately to its right. [Layout.Overlaps] reports that
// slot. A spread in the last column would leave the page and is rejected.
//
//	l, err := grid.Compute(grid.Config{
//	    Width: 1000, Height: 500,
//	    Columns: 4, Rows: 2,
//	    Padding: 10,
//	    Spread:  &grid.PanelID{Column: 0, Row: 0},
//	})
//	g, _ := l.Panel(grid.PanelID{Column: 0, Row: 0})
//	// g.X=0 g.Y=0 g.Width=500 g.Height=250 g.Padding=0
//
// # Errors
//
// Invalid dimensions and out-of-bounds spreads return an INVALID_CONFIG error
// from [github.com/pocketdigest/pocketdigest/pkg/errors]. Compute has no side
// effects.
package grid
