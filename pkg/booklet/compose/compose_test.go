package compose

import (
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

func pocketmodLayout(t *testing.T) *grid.Layout {
	t.Helper()
	l, err := grid.Compute(grid.Config{Width: 1000, Height: 500, Columns: 4, Rows: 2, Padding: 10})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return l
}

func text(s string) []content.Block {
	return []content.Block{content.Paragraph(content.StyleBody, content.Plain("%s", s))}
}

func TestPlanOrderAndSkip(t *testing.T) {
	l := pocketmodLayout(t)
	contents := Contents{
		{Column: 3, Row: 1}: text("front"),
		{Column: 0, Row: 1}: text("five"),
		{Column: 0, Row: 0}: text("one"),
		{Column: 2, Row: 0}: text("three"),
	}

	instrs, err := Plan(l, Pocketmod(), contents)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var got []string
	for _, in := range instrs {
		got = append(got, in.Slot.Panel.String())
	}
	want := []string{"0-0", "0-1", "2-0", "3-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instruction order mismatch (-want +got):\n%s", diff)
	}

	skipped := SkippedPanels(l, contents)
	var gotSkipped []string
	for _, id := range skipped {
		gotSkipped = append(gotSkipped, id.String())
	}
	wantSkipped := []string{"1-0", "1-1", "2-1", "3-0"}
	if diff := cmp.Diff(wantSkipped, gotSkipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanRotation(t *testing.T) {
	l := pocketmodLayout(t)
	contents := Contents{}
	for _, g := range l.Panels() {
		contents[g.ID] = text(g.ID.String())
	}

	instrs, err := Plan(l, Pocketmod(), contents)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(instrs) != 8 {
		t.Fatalf("got %d instructions, want 8", len(instrs))
	}

	fixed := Rotation{Degrees: 180, TranslateX: 1000, TranslateY: 250}
	for _, in := range instrs {
		switch in.Slot.Row {
		case RowTop:
			if in.Rotation == nil {
				t.Errorf("panel %s in top row has no rotation", in.Slot.Panel)
				continue
			}
			if *in.Rotation != fixed {
				t.Errorf("panel %s rotation = %v, want %v", in.Slot.Panel, *in.Rotation, fixed)
			}
		case RowBottom:
			if in.Rotation != nil {
				t.Errorf("panel %s in bottom row has rotation %v", in.Slot.Panel, *in.Rotation)
			}
		}
		if want := Pocketmod().Label(in.Slot.Panel); in.Slot.Label != want {
			t.Errorf("panel %s label = %q, want %q", in.Slot.Panel, in.Slot.Label, want)
		}
		if g, _ := l.Panel(in.Slot.Panel); g != in.Geometry {
			t.Errorf("panel %s geometry = %+v, want %+v", in.Slot.Panel, in.Geometry, g)
		}
	}
}

func TestPlanEmptyContent(t *testing.T) {
	l := pocketmodLayout(t)
	contents := Contents{
		{Column: 0, Row: 0}: text("one"),
		{Column: 1, Row: 0}: nil,
		{Column: 2, Row: 0}: {},
		{Column: 3, Row: 0}: text("four"),
	}

	instrs, err := Plan(l, Pocketmod(), contents)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(instrs) != 4 {
		t.Fatalf("got %d instructions, want 4", len(instrs))
	}
	for _, in := range instrs[1:3] {
		if len(in.Slot.Blocks) != 0 {
			t.Errorf("panel %s has %d blocks, want 0", in.Slot.Panel, len(in.Slot.Blocks))
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	l := pocketmodLayout(t)
	contents := Contents{}
	for i, g := range l.Panels() {
		contents[g.ID] = text(fmt.Sprint(i))
	}

	first, err := Plan(l, Pocketmod(), contents)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Plan(l, Pocketmod(), contents)
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestPlanDoesNotAliasContent(t *testing.T) {
	l := pocketmodLayout(t)
	blocks := text("one")
	instrs, err := Plan(l, Pocketmod(), Contents{{Column: 0, Row: 0}: blocks})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	blocks[0] = content.Spacer{Height: 1}
	if _, ok := instrs[0].Slot.Blocks[0].(content.Text); !ok {
		t.Error("instruction blocks alias the caller's slice")
	}
}

func TestPlanErrors(t *testing.T) {
	l := pocketmodLayout(t)

	tests := []struct {
		name     string
		table    Table
		contents Contents
	}{
		{"content outside grid", Pocketmod(), Contents{{Column: 4, Row: 0}: nil}},
		{"label outside grid", Table{Rows: []RowClass{RowTop, RowBottom}, Labels: map[grid.PanelID]string{{Column: 0, Row: 2}: "x"}}, nil},
		{"row table too short", Table{Rows: []RowClass{RowTop}}, nil},
		{"row table too long", Table{Rows: []RowClass{RowTop, RowBottom, RowBottom}}, nil},
		{"invalid row class", Table{Rows: []RowClass{RowTop, RowClass(7)}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(l, tt.table, tt.contents)
			if !errors.IsConfiguration(err) {
				t.Errorf("Plan() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestRotationFor(t *testing.T) {
	l, err := grid.Compute(grid.Config{Width: 800, Height: 600, Columns: 4, Rows: 3})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for row := 0; row < 3; row++ {
		r := RotationFor(l, row)
		top, bottom := float64(row)*200, float64(row+1)*200

		// The strip maps onto itself with its corners swapped.
		x, y := r.Apply(0, top)
		if x != 800 || y != bottom {
			t.Errorf("row %d: top-left -> (%v, %v), want (800, %v)", row, x, y, bottom)
		}
		x, y = r.Apply(800, bottom)
		if x != 0 || y != top {
			t.Errorf("row %d: bottom-right -> (%v, %v), want (0, %v)", row, x, y, top)
		}
	}
}

func TestRotationApply(t *testing.T) {
	tests := []struct {
		name         string
		r            Rotation
		x, y         float64
		wantX, wantY float64
	}{
		{"identity", Rotation{}, 3, 4, 3, 4},
		{"translate", Rotation{TranslateX: 10, TranslateY: -2}, 3, 4, 13, 2},
		{"half turn", Rotation{Degrees: 180, TranslateX: 1000, TranslateY: 250}, 100, 50, 900, 200},
		{"quarter turn", Rotation{Degrees: 90}, 1, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.r.Apply(tt.x, tt.y)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestRowClassText(t *testing.T) {
	tests := []struct {
		in      string
		want    RowClass
		wantErr bool
	}{
		{"top", RowTop, false},
		{"Bottom", RowBottom, false},
		{" TOP ", RowTop, false},
		{"middle", RowBottom, true},
		{"", RowBottom, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c RowClass
			err := c.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && c != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, c, tt.want)
			}
		})
	}

	b, err := RowTop.MarshalText()
	if err != nil || string(b) != "top" {
		t.Errorf("MarshalText() = %q, %v; want \"top\", nil", b, err)
	}
	if _, err := RowClass(9).MarshalText(); err == nil {
		t.Error("MarshalText() of invalid class succeeded")
	}
}

func TestPocketmodTable(t *testing.T) {
	l := pocketmodLayout(t)
	tbl := Pocketmod()
	if err := tbl.Validate(l); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(tbl.Labels) != PocketmodColumns*PocketmodRows {
		t.Errorf("got %d labels, want %d", len(tbl.Labels), PocketmodColumns*PocketmodRows)
	}
	if tbl.Class(0) != RowTop || tbl.Class(1) != RowBottom {
		t.Errorf("row classes = %v, %v; want top, bottom", tbl.Class(0), tbl.Class(1))
	}
	if tbl.Class(5) != RowBottom {
		t.Error("unlisted row should default to bottom")
	}

	want := map[grid.PanelID]string{
		{Column: 0, Row: 0}: "1 left",
		{Column: 1, Row: 0}: "2 right",
		{Column: 2, Row: 0}: "3 left",
		{Column: 3, Row: 0}: "4 right",
		{Column: 0, Row: 1}: "5 left",
		{Column: 1, Row: 1}: "6 right",
		{Column: 2, Row: 1}: "Back",
		{Column: 3, Row: 1}: "Front",
	}
	if diff := cmp.Diff(want, tbl.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

// recorder is a Canvas that logs every call.
type recorder struct {
	calls   []string
	depth   int
	failOn  map[grid.PanelID]error
	panicOn map[grid.PanelID]bool
}

func (r *recorder) SaveState() {
	r.depth++
	r.calls = append(r.calls, "save")
}

func (r *recorder) RestoreState() {
	r.depth--
	r.calls = append(r.calls, "restore")
}

func (r *recorder) Apply(rot Rotation) {
	r.calls = append(r.calls, fmt.Sprintf("apply %g", rot.Degrees))
}

func (r *recorder) DrawPanel(g grid.Geometry, blocks []content.Block) error {
	r.calls = append(r.calls, fmt.Sprintf("draw %s %d", g.ID, len(blocks)))
	if r.panicOn[g.ID] {
		panic("canvas exploded")
	}
	return r.failOn[g.ID]
}

func planAll(t *testing.T, contents Contents) []Instruction {
	t.Helper()
	instrs, err := Plan(pocketmodLayout(t), Pocketmod(), contents)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return instrs
}

func TestDrawScopesRotation(t *testing.T) {
	instrs := planAll(t, Contents{
		{Column: 0, Row: 0}: text("a"),
		{Column: 0, Row: 1}: text("b"),
	})

	rec := &recorder{}
	rep := Draw(rec, instrs)

	want := []string{
		"save", "apply 180", "draw 0-0 1", "restore",
		"save", "draw 0-1 1", "restore",
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("canvas calls mismatch (-want +got):\n%s", diff)
	}
	if rec.depth != 0 {
		t.Errorf("unbalanced save/restore, depth %d", rec.depth)
	}
	if rep.Rendered() != 2 || len(rep.Errors) != 0 {
		t.Errorf("report = %+v, want 2 rendered and no errors", rep)
	}
}

func TestDrawRestoresOnFailure(t *testing.T) {
	instrs := planAll(t, Contents{
		{Column: 0, Row: 0}: text("a"),
		{Column: 1, Row: 0}: text("b"),
		{Column: 2, Row: 0}: text("c"),
	})

	rec := &recorder{
		failOn:  map[grid.PanelID]error{{Column: 0, Row: 0}: stderrors.New("image unreachable")},
		panicOn: map[grid.PanelID]bool{{Column: 1, Row: 0}: true},
	}
	rep := Draw(rec, instrs)

	want := []string{
		"save", "apply 180", "draw 0-0 1", "restore",
		"save", "apply 180", "draw 1-0 1", "restore",
		"save", "apply 180", "draw 2-0 1", "restore",
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("canvas calls mismatch (-want +got):\n%s", diff)
	}
	if rec.depth != 0 {
		t.Errorf("unbalanced save/restore, depth %d", rec.depth)
	}
	if len(rep.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(rep.Errors))
	}
	for _, e := range rep.Errors {
		if !errors.Is(e, errors.ErrCodeRender) {
			t.Errorf("error %v is not RENDER_FAILED", e)
		}
	}
	// Failed panels still count: Rendered means the draw was attempted.
	if rep.Rendered() != 3 {
		t.Errorf("Rendered() = %d, want 3", rep.Rendered())
	}
	for _, id := range []grid.PanelID{{Column: 0, Row: 0}, {Column: 1, Row: 0}} {
		if rep.States[id] != Rendered {
			t.Errorf("state of failed panel %v = %v, want Rendered", id, rep.States[id])
		}
	}
}

func TestDrawObserver(t *testing.T) {
	l := pocketmodLayout(t)
	contents := Contents{
		{Column: 0, Row: 0}: text("a"),
		{Column: 0, Row: 1}: nil,
	}
	instrs, err := Plan(l, Pocketmod(), contents)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var events []string
	rep := Draw(&recorder{}, instrs,
		WithSkipped(SkippedPanels(l, contents)),
		WithObserver(func(id grid.PanelID, s State) {
			events = append(events, id.String()+" "+s.String())
		}),
	)

	want := []string{
		"1-0 skipped", "1-1 skipped", "2-0 skipped", "2-1 skipped", "3-0 skipped", "3-1 skipped",
		"0-0 transforming", "0-0 rendered",
		"0-1 rendered",
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(rep.States) != 8 {
		t.Errorf("report covers %d panels, want 8", len(rep.States))
	}
	if rep.States[grid.PanelID{Column: 3, Row: 1}] != Skipped {
		t.Error("panel 3-1 should be skipped")
	}
}
