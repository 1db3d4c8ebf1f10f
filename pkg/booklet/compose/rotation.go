package compose

import (
	"fmt"
	"math"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
)

// Rotation is an affine transform: rotate by Degrees about the page origin,
// then translate by (TranslateX, TranslateY). Coordinates are top-left origin
// with y growing downwards, so positive angles turn clockwise on the sheet.
type Rotation struct {
	Degrees    float64 `json:"degrees"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// RotationFor returns the half turn that flips row upside-down in place.
// A point (x, y) maps to (W-x, 2*row*bh+bh-y), where bh is the base row
// height: the strip is rotated about its own centre and stays where it was.
func RotationFor(l *grid.Layout, row int) Rotation {
	bh := l.BaseHeight()
	return Rotation{
		Degrees:    180,
		TranslateX: l.PageWidth(),
		TranslateY: 2*float64(row)*bh + bh,
	}
}

// SinCos returns the sine and cosine of the rotation angle with values within
// 1e-12 of -1, 0 or 1 snapped, so quarter turns compose exactly.
func (r Rotation) SinCos() (sin, cos float64) {
	sin, cos = math.Sincos(r.Degrees * math.Pi / 180)
	return snap(sin), snap(cos)
}

func snap(v float64) float64 {
	for _, t := range [...]float64{-1, 0, 1} {
		if math.Abs(v-t) < 1e-12 {
			return t
		}
	}
	return v
}

// Apply maps a point drawn under the rotation to its position on the page.
func (r Rotation) Apply(x, y float64) (float64, float64) {
	s, c := r.SinCos()
	return c*x - s*y + r.TranslateX, s*x + c*y + r.TranslateY
}

func (r Rotation) String() string {
	return fmt.Sprintf("rotate(%g) translate(%g, %g)", r.Degrees, r.TranslateX, r.TranslateY)
}
