package config

import (
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Portrait sheet sizes in points.
var pageSizes = map[string][2]float64{
	"a4":     {595.28, 841.89},
	"a5":     {419.53, 595.28},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// PageSize returns the sheet size in points with the configured orientation
// applied.
func (p Page) PageSize() (width, height float64, err error) {
	switch {
	case p.Width > 0 && p.Height > 0:
		width, height = p.Width, p.Height
	case p.Width != 0 || p.Height != 0:
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "page width and height must both be positive, got %vx%v", p.Width, p.Height)
	default:
		size, ok := pageSizes[strings.ToLower(p.Size)]
		if !ok {
			return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "unknown page size %q (want A4, A5, Letter or Legal)", p.Size)
		}
		width, height = size[0], size[1]
	}

	switch strings.ToLower(p.Orientation) {
	case "", "portrait":
		if width > height {
			width, height = height, width
		}
	case "landscape":
		if width < height {
			width, height = height, width
		}
	default:
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "unknown orientation %q (want landscape or portrait)", p.Orientation)
	}
	return width, height, nil
}

// GridConfig returns the grid the page is divided into.
func (p Page) GridConfig() (grid.Config, error) {
	w, h, err := p.PageSize()
	if err != nil {
		return grid.Config{}, err
	}
	cfg := grid.Config{
		Width:   w,
		Height:  h,
		Columns: p.Columns,
		Rows:    p.Rows,
		Padding: p.Padding,
	}
	switch len(p.Spread) {
	case 0:
	case 2:
		cfg.Spread = &grid.PanelID{Column: p.Spread[0], Row: p.Spread[1]}
	default:
		return grid.Config{}, errors.New(errors.ErrCodeInvalidConfig, "spread must be [column, row], got %v", p.Spread)
	}
	return cfg, nil
}
