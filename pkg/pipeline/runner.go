package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Runner executes digest runs.
//
// A Runner keeps no state between runs; several goroutines may call Execute
// on the same Runner with different options.
type Runner struct {
	Logger *log.Logger

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// NewRunner creates a runner. A nil logger logs through log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Execute runs layout → collect → plan → render and, when opts.Output is
// set, writes the PDF. The returned error is non-nil only for invalid
// configuration, cancellation, or a document that could not be produced at
// all; per-panel failures are reported in the Result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults(r)
	logger := opts.Logger
	result := &Result{RunID: uuid.NewString()}
	logger = logger.With("run", result.RunID[:8])

	// Stage 1: Layout
	l, t, err := ComputeLayout(opts.Config)
	if err != nil {
		return nil, err
	}
	result.Layout, result.Table = l, t
	logger.Debug("computed layout",
		"panels", l.Len(),
		"panel_width", l.BaseWidth(),
		"panel_height", l.BaseHeight())
	if id, ok := l.Overlaps(); ok {
		logger.Warn("spread panel overlays its neighbour", "panel", id)
	}

	if opts.Cache == nil {
		mem := cache.NewMemoryCache()
		defer mem.Close()
		opts.Cache = mem
	}

	// Stage 2: Collect
	collectStart := time.Now()
	contents, failed, err := r.collect(ctx, l, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Failed = failed
	result.Stats.CollectTime = time.Since(collectStart)
	logger.Info("collected content",
		"panels", len(contents),
		"failed", len(failed),
		"duration", result.Stats.CollectTime)

	// Stage 3: Plan
	instrs, err := compose.Plan(l, t, contents)
	if err != nil {
		return nil, err
	}
	result.Instructions = instrs

	// Stage 4: Render
	renderStart := time.Now()
	out, err := r.render(ctx, l, instrs, compose.SkippedPanels(l, contents), result.RunID, opts, logger)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		return nil, err
	}
	result.Report = out.report
	result.Dropped = out.dropped
	result.PDF = out.pdf
	result.Stats.Size = len(out.pdf)
	logger.Info("rendered digest",
		"panels", out.report.Rendered(),
		"dropped", out.dropped,
		"bytes", len(out.pdf),
		"duration", result.Stats.RenderTime)

	if opts.Output != "" {
		if err := writeFile(opts.Output, out.pdf); err != nil {
			return nil, err
		}
		result.Output = opts.Output
		logger.Info("wrote digest", "path", opts.Output)
	}
	return result, nil
}

// Collect runs the layout and collect stages only and returns what every
// panel would show. Failed panels carry their fallback label.
func (r *Runner) Collect(ctx context.Context, opts Options) (compose.Contents, []Failure, error) {
	opts.setDefaults(r)
	l, _, err := ComputeLayout(opts.Config)
	if err != nil {
		return nil, nil, err
	}
	if opts.Cache == nil {
		mem := cache.NewMemoryCache()
		defer mem.Close()
		opts.Cache = mem
	}
	return r.collect(ctx, l, opts, opts.Logger)
}

// writeFile writes data to path through a temporary file so a failed run
// never leaves a truncated PDF behind.
func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".pocketdigest-*.pdf")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// String summarises the result for logs and CLI output.
func (r *Result) String() string {
	return fmt.Sprintf("%d panels, %d failed, %d blocks dropped, %d bytes",
		r.Report.Rendered(), len(r.Failed), r.Dropped, len(r.PDF))
}
