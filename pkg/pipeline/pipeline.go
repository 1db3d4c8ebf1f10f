// Package pipeline runs one complete digest pass.
//
// A run has four stages:
//
//  1. Layout: validate the configuration and compute the page grid
//  2. Collect: fetch every slot's source, one after another
//  3. Plan: assign the fetched blocks to panels and attach row rotations
//  4. Render: draw the instructions on a PDF canvas and write the file
//
// Only configuration errors stop a run. A source that fails leaves its panel
// with the panel label; a block that cannot be drawn is dropped and counted.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config: cfg,
//	    Output: "digest.pdf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.RunID, len(result.Failed), result.Dropped)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/render/pdf"
)

// Options configures a single run.
type Options struct {
	// Config is the digest configuration. Nil means config.Default().
	Config *config.Config

	// Output is the path the PDF is written to. Empty leaves the PDF in
	// Result.PDF only.
	Output string

	// Refresh bypasses the response cache.
	Refresh bool

	// Now dates the digest. Zero means the current time in the configured
	// time zone.
	Now time.Time

	// Producers replace the configured source of individual panels.
	Producers map[grid.PanelID]content.Producer

	// Images overrides the image loader used by the PDF canvas.
	Images pdf.ImageLoader

	// Cache holds service responses. Nil gives each run a fresh in-memory
	// cache.
	Cache cache.Cache

	// Logger overrides the runner's logger.
	Logger *log.Logger
}

func (o *Options) setDefaults(r *Runner) {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Now.IsZero() {
		o.Now = r.now().In(o.Config.Location())
	}
	if o.Logger == nil {
		o.Logger = r.Logger
	}
}

// Failure records a panel whose source failed.
type Failure struct {
	Panel  grid.PanelID
	Source string
	Err    error
}

// Stats holds timings and sizes of a run.
type Stats struct {
	CollectTime time.Duration
	RenderTime  time.Duration
	Size        int
}

// Result is the outcome of a run.
type Result struct {
	RunID        string
	Layout       *grid.Layout
	Table        compose.Table
	Instructions []compose.Instruction
	Report       compose.Report
	Failed       []Failure
	Dropped      int
	PDF          []byte
	Output       string
	Stats        Stats
}
