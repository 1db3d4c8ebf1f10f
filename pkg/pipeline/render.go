package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/buildinfo"
	"github.com/pocketdigest/pocketdigest/pkg/integrations"
	"github.com/pocketdigest/pocketdigest/pkg/observability"
	"github.com/pocketdigest/pocketdigest/pkg/render/pdf"
)

type rendered struct {
	pdf     []byte
	report  compose.Report
	dropped int
}

// render draws instrs on a fresh PDF canvas. Panel failures end up in the
// report; an error is returned only when no document could be produced.
func (r *Runner) render(ctx context.Context, l *grid.Layout, instrs []compose.Instruction, skipped []grid.PanelID, runID string, opts Options, logger *log.Logger) (out rendered, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, len(instrs))
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, len(out.pdf), time.Since(start), err)
	}()

	images := opts.Images
	if images == nil {
		images = integrations.NewClient(opts.Cache, "image:", opts.Config.Settings(), nil)
	}

	page := opts.Config.Page
	canvas, err := pdf.New(ctx, l.PageWidth(), l.PageHeight(),
		pdf.WithImageLoader(images),
		pdf.WithBoundaries(page.Boundaries),
		pdf.WithLogger(logger),
		pdf.WithMetadata(pdf.Metadata{
			Title:   page.Title,
			Subject: opts.Now.Format("Monday 2 January 2006") + " (run " + runID + ")",
			Creator: "pocketdigest " + buildinfo.Version,
			Created: opts.Now,
		}),
	)
	if err != nil {
		return rendered{}, err
	}

	rep := compose.Draw(canvas, instrs,
		compose.WithSkipped(skipped),
		compose.WithObserver(func(id grid.PanelID, s compose.State) {
			logger.Debug("panel state", "panel", id, "state", s)
		}),
	)

	panelErrs := make(map[grid.PanelID]error, len(rep.Errors))
	for _, pe := range rep.Errors {
		panelErrs[pe.Panel] = pe.Err
		logger.Warn("panel drawn with errors", "panel", pe.Panel, "error", pe.Err)
	}
	for _, in := range instrs {
		hooks.OnPanelDrawn(ctx, in.Slot.Panel.String(), in.Rotated(), panelErrs[in.Slot.Panel])
	}

	data, err := canvas.Bytes()
	if err != nil {
		return rendered{}, err
	}
	if err := pdf.Validate(data); err != nil {
		logger.Warn("generated pdf failed validation", "error", err)
	}
	return rendered{pdf: data, report: rep, dropped: canvas.Dropped()}, nil
}
