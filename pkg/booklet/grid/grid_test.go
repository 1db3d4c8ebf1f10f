package grid

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

func TestComputeTilesPage(t *testing.T) {
	l, err := Compute(Config{Width: 1000, Height: 500, Columns: 4, Rows: 2, Padding: 10})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if got := l.Len(); got != 8 {
		t.Fatalf("Len() = %d, want 8", got)
	}
	if l.BaseWidth() != 250 || l.BaseHeight() != 250 {
		t.Errorf("base = %vx%v, want 250x250", l.BaseWidth(), l.BaseHeight())
	}

	var area float64
	for _, g := range l.Panels() {
		area += g.Width * g.Height
		if g.Padding != Uniform(10) {
			t.Errorf("panel %s padding = %+v, want uniform 10", g.ID, g.Padding)
		}
		if g.Spread {
			t.Errorf("panel %s marked as spread", g.ID)
		}
		if g.Right() > 1000 || g.Bottom() > 500 {
			t.Errorf("panel %s leaves the page: %+v", g.ID, g)
		}
	}
	if area != 1000*500 {
		t.Errorf("total area = %v, want %v", area, 1000*500)
	}
}

func TestComputeOrigins(t *testing.T) {
	l, err := Compute(Config{Width: 1000, Height: 500, Columns: 4, Rows: 2, Padding: 10})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	tests := []struct {
		id   PanelID
		x, y float64
	}{
		{PanelID{0, 0}, 0, 0},
		{PanelID{1, 0}, 250, 0},
		{PanelID{3, 0}, 750, 0},
		{PanelID{0, 1}, 0, 250},
		{PanelID{3, 1}, 750, 250},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			g, ok := l.Panel(tt.id)
			if !ok {
				t.Fatalf("Panel(%s) missing", tt.id)
			}
			if g.X != tt.x || g.Y != tt.y {
				t.Errorf("origin = (%v, %v), want (%v, %v)", g.X, g.Y, tt.x, tt.y)
			}
		})
	}
}

func TestComputeSpread(t *testing.T) {
	l, err := Compute(Config{
		Width: 1000, Height: 500,
		Columns: 4, Rows: 2,
		Padding: 10,
		Spread:  &PanelID{Column: 0, Row: 0},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	spread, _ := l.Panel(PanelID{0, 0})
	want := Geometry{ID: PanelID{0, 0}, X: 0, Y: 0, Width: 500, Height: 250, Spread: true}
	if diff := cmp.Diff(want, spread); diff != "" {
		t.Errorf("spread panel mismatch (-want +got):\n%s", diff)
	}

	neighbour, _ := l.Panel(PanelID{1, 0})
	want = Geometry{ID: PanelID{1, 0}, X: 250, Y: 0, Width: 250, Height: 250, Padding: Uniform(10)}
	if diff := cmp.Diff(want, neighbour); diff != "" {
		t.Errorf("overlaid panel mismatch (-want +got):\n%s", diff)
	}

	over, ok := l.Overlaps()
	if !ok || over != (PanelID{1, 0}) {
		t.Errorf("Overlaps() = %s, %v; want 1-0, true", over, ok)
	}
	if l.Len() != 8 {
		t.Errorf("Len() = %d, want 8", l.Len())
	}
}

func TestComputeNoSpread(t *testing.T) {
	l, err := Compute(Config{Width: 100, Height: 100, Columns: 2, Rows: 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if _, ok := l.Spread(); ok {
		t.Error("Spread() reported a panel with none configured")
	}
	if _, ok := l.Overlaps(); ok {
		t.Error("Overlaps() reported a slot with no spread configured")
	}
}

func TestComputeSinglePanel(t *testing.T) {
	l, err := Compute(Config{Width: 300, Height: 200, Columns: 1, Rows: 1, Padding: 5})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	g, _ := l.Panel(PanelID{0, 0})
	x, y, w, h := g.Inner()
	if x != 5 || y != 5 || w != 290 || h != 190 {
		t.Errorf("Inner() = %v %v %v %v, want 5 5 290 190", x, y, w, h)
	}
}

func TestComputeNonIntegralDivision(t *testing.T) {
	l, err := Compute(Config{Width: 841.89, Height: 595.28, Columns: 4, Rows: 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	last, _ := l.Panel(PanelID{3, 1})
	if math.Abs(last.Right()-841.89) > 1e-9 {
		t.Errorf("right edge = %v, want 841.89", last.Right())
	}
	if math.Abs(last.Bottom()-595.28) > 1e-9 {
		t.Errorf("bottom edge = %v, want 595.28", last.Bottom())
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero columns", Config{Width: 100, Height: 100, Columns: 0, Rows: 2}},
		{"negative rows", Config{Width: 100, Height: 100, Columns: 2, Rows: -1}},
		{"zero width", Config{Width: 0, Height: 100, Columns: 2, Rows: 2}},
		{"negative height", Config{Width: 100, Height: -5, Columns: 2, Rows: 2}},
		{"nan width", Config{Width: math.NaN(), Height: 100, Columns: 2, Rows: 2}},
		{"infinite height", Config{Width: 100, Height: math.Inf(1), Columns: 2, Rows: 2}},
		{"negative padding", Config{Width: 100, Height: 100, Columns: 2, Rows: 2, Padding: -1}},
		{"spread out of bounds", Config{Width: 100, Height: 100, Columns: 2, Rows: 2, Spread: &PanelID{5, 0}}},
		{"spread negative row", Config{Width: 100, Height: 100, Columns: 2, Rows: 2, Spread: &PanelID{0, -1}}},
		{"spread in last column", Config{Width: 100, Height: 100, Columns: 2, Rows: 2, Spread: &PanelID{1, 0}}},
		{"spread in single column", Config{Width: 100, Height: 100, Columns: 1, Rows: 1, Spread: &PanelID{0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compute(tt.cfg)
			if err == nil {
				t.Fatalf("Compute() = %v, want error", l)
			}
			if !errors.IsConfiguration(err) {
				t.Errorf("error %v is not INVALID_CONFIG", err)
			}
		})
	}
}

func TestPanelsOrder(t *testing.T) {
	l, err := Compute(Config{Width: 30, Height: 20, Columns: 3, Rows: 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	var got []string
	for _, g := range l.Panels() {
		got = append(got, g.ID.String())
	}
	want := []string{"0-0", "0-1", "1-0", "1-1", "2-0", "2-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Panels() order mismatch (-want +got):\n%s", diff)
	}
}

func TestContains(t *testing.T) {
	l, err := Compute(Config{Width: 40, Height: 20, Columns: 4, Rows: 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	tests := []struct {
		id   PanelID
		want bool
	}{
		{PanelID{0, 0}, true},
		{PanelID{3, 1}, true},
		{PanelID{4, 0}, false},
		{PanelID{0, 2}, false},
		{PanelID{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := l.Contains(tt.id); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestPanelIDCompare(t *testing.T) {
	tests := []struct {
		a, b PanelID
		want int
	}{
		{PanelID{0, 0}, PanelID{0, 0}, 0},
		{PanelID{0, 1}, PanelID{1, 0}, -1},
		{PanelID{1, 0}, PanelID{0, 1}, 1},
		{PanelID{2, 0}, PanelID{2, 1}, -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
