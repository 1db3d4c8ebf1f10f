package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
	"github.com/pocketdigest/pocketdigest/pkg/observability"
	"github.com/pocketdigest/pocketdigest/pkg/sources"
)

// collect fetches the content of every slot in panel order. Fetches run one
// at a time. A failed slot gets its label as content and is reported in the
// returned failures; only cancellation aborts.
func (r *Runner) collect(ctx context.Context, l *grid.Layout, opts Options, logger *log.Logger) (compose.Contents, []Failure, error) {
	cfg := opts.Config
	slots := make(map[grid.PanelID]config.Slot)
	for _, s := range cfg.ResolvedSlots() {
		slots[grid.PanelID{Column: s.Column, Row: s.Row}] = s
	}

	hooks := observability.Pipeline()
	contents := make(compose.Contents, len(slots))
	var failed []Failure

	for _, g := range l.Panels() {
		slot, ok := slots[g.ID]
		_, override := opts.Producers[g.ID]
		if !ok && !override {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeContentFetch, err, "collect interrupted")
		}

		name, p, err := r.producer(g, slot, opts, logger)
		if err != nil {
			return nil, nil, err
		}

		panel := g.ID.String()
		hooks.OnFetchStart(ctx, name, panel)
		start := time.Now()
		blocks, err := content.Collect(ctx, name, p)
		hooks.OnFetchComplete(ctx, name, panel, len(blocks), time.Since(start), err)

		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeContentFetch, ctx.Err(), "collect interrupted")
			}
			logger.Warn("source failed, using label", "panel", panel, "source", name, "error", err)
			failed = append(failed, Failure{Panel: g.ID, Source: name, Err: err})
			blocks = sources.Fallback(slot.Label)
		}
		logger.Debug("collected panel", "panel", panel, "source", name, "blocks", len(blocks))
		contents[g.ID] = blocks
	}
	return contents, failed, nil
}

func (r *Runner) producer(g grid.Geometry, slot config.Slot, opts Options, logger *log.Logger) (string, content.Producer, error) {
	if p, ok := opts.Producers[g.ID]; ok {
		name := slot.Source
		if name == "" {
			name = "custom"
		}
		return name, p, nil
	}
	src, err := sources.Lookup(slot.Source)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "panel %s", g.ID)
	}
	env := sources.Env{
		Services: opts.Config.Services,
		Cache:    opts.Cache,
		Settings: opts.Config.Settings(),
		Slot: sources.Slot{
			Label:    slot.Label,
			Geometry: g,
			Options:  slot.Options,
		},
		Now:     opts.Now,
		Refresh: opts.Refresh,
		Logger:  logger,
	}
	return src.Name, src.New(env), nil
}
