package compose

import (
	"fmt"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Canvas is the drawing backend Draw drives.
//
// SaveState and RestoreState bracket every panel. Apply composes a rotation
// with the current transform and is only called between a SaveState and its
// RestoreState. DrawPanel renders blocks into the panel rectangle; an error
// means some of the panel could not be drawn, not that the canvas is unusable.
type Canvas interface {
	SaveState()
	RestoreState()
	Apply(r Rotation)
	DrawPanel(g grid.Geometry, blocks []content.Block) error
}

// State is the progress of one panel through Draw.
type State int

const (
	Unrendered State = iota
	Transforming
	Rendered
	Skipped
)

func (s State) String() string {
	switch s {
	case Unrendered:
		return "unrendered"
	case Transforming:
		return "transforming"
	case Rendered:
		return "rendered"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer is notified of every state change.
type Observer func(id grid.PanelID, s State)

// DrawOption configures Draw.
type DrawOption func(*drawConfig)

type drawConfig struct {
	observer Observer
	skipped  []grid.PanelID
}

// WithObserver registers fn to receive state changes.
func WithObserver(fn Observer) DrawOption {
	return func(c *drawConfig) { c.observer = fn }
}

// WithSkipped records panels that received no instruction so the report and
// observer cover the whole grid.
func WithSkipped(ids []grid.PanelID) DrawOption {
	return func(c *drawConfig) { c.skipped = ids }
}

// PanelError is a failure while drawing one panel.
type PanelError struct {
	Panel grid.PanelID
	Err   error
}

func (e *PanelError) Error() string { return fmt.Sprintf("panel %s: %v", e.Panel, e.Err) }

func (e *PanelError) Unwrap() error { return e.Err }

// Report summarises a Draw pass.
type Report struct {
	States map[grid.PanelID]State
	Errors []*PanelError
}

// Rendered returns the number of panels whose draw was attempted. A panel
// whose DrawPanel failed still ends in Rendered; its error is in Errors.
func (r Report) Rendered() int {
	n := 0
	for _, s := range r.States {
		if s == Rendered {
			n++
		}
	}
	return n
}

// Draw renders instructions in order. Each panel is wrapped in
// SaveState/RestoreState, and the restore runs on every exit path including
// a panic inside the canvas. A failed panel still moves to Rendered and its
// error is collected in the report. Draw itself never fails.
func Draw(c Canvas, instrs []Instruction, opts ...DrawOption) Report {
	var cfg drawConfig
	for _, o := range opts {
		o(&cfg)
	}
	notify := func(id grid.PanelID, s State) {
		if cfg.observer != nil {
			cfg.observer(id, s)
		}
	}

	rep := Report{States: make(map[grid.PanelID]State, len(instrs)+len(cfg.skipped))}
	for _, id := range cfg.skipped {
		rep.States[id] = Skipped
		notify(id, Skipped)
	}
	for _, in := range instrs {
		rep.States[in.Slot.Panel] = Unrendered
	}

	for _, in := range instrs {
		id := in.Slot.Panel
		err := drawPanel(c, in, func(s State) {
			rep.States[id] = s
			notify(id, s)
		})
		rep.States[id] = Rendered
		notify(id, Rendered)
		if err != nil {
			rep.Errors = append(rep.Errors, &PanelError{Panel: id, Err: err})
		}
	}
	return rep
}

func drawPanel(c Canvas, in Instruction, transition func(State)) (err error) {
	c.SaveState()
	defer c.RestoreState()
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeRender, "drawing panic: %v", r)
		}
	}()

	if in.Rotation != nil {
		transition(Transforming)
		c.Apply(*in.Rotation)
	}
	if err := c.DrawPanel(in.Geometry, in.Slot.Blocks); err != nil {
		if errors.Is(err, errors.ErrCodeRender) {
			return err
		}
		return errors.Wrap(errors.ErrCodeRender, err, "draw")
	}
	return nil
}
