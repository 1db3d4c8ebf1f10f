// Package pkg provides the libraries behind pocketdigest, a daily digest
// printed as a pocketmod booklet.
//
// # Overview
//
// A pocketmod is a single landscape sheet divided into a 4×2 grid. Cut along
// the middle and folded, it becomes an eight-page booklet. The top row ends
// up upside down on the sheet, so its panels are drawn rotated by 180°. The
// pkg directory is organized into four areas:
//
//  1. [booklet] - Page model (grid geometry, content blocks, assignment and rotation)
//  2. [sources] - What goes in a panel, built on the service clients in [integrations]
//  3. [render/pdf] - The gofpdf drawing backend
//  4. [pipeline] - Orchestration (layout → collect → plan → render)
//
// # Architecture
//
// The data flow of one run:
//
//	pocketdigest.toml
//	         ↓
//	    [config] (page, slots, service credentials)
//	         ↓
//	    [booklet/grid] (panel geometry)
//	         ↓
//	    [sources] + [integrations] (fetch, one panel at a time)
//	         ↓
//	    [booklet/compose] (assign content, attach row rotations)
//	         ↓
//	    [render/pdf] (draw, validate)
//	         ↓
//	    digest.pdf
//
// # Quick Start
//
// Lay out a page and draw hand-built content:
//
//	l, _ := grid.Compute(grid.Config{Width: 841.89, Height: 595.28, Columns: 4, Rows: 2, Padding: 10})
//	instrs, _ := compose.Plan(l, compose.Pocketmod(), compose.Contents{
//	    {Column: 0, Row: 1}: content.Label("Front"),
//	})
//	canvas, _ := pdf.New(ctx, 841.89, 595.28)
//	report := compose.Draw(canvas, instrs)
//	data, _ := canvas.Bytes()
//
// Or run the whole thing from a configuration:
//
//	cfg, _, _ := config.Resolve("")
//	result, err := pipeline.NewRunner(logger).Execute(ctx, pipeline.Options{
//	    Config: cfg,
//	    Output: "digest.pdf",
//	})
//
// # Main Packages
//
// [booklet/grid] - Uniform grid geometry with an optional spread panel that
// spans two columns.
//
// [booklet/content] - Text, image and spacer blocks and the [content.Producer]
// interface every source implements.
//
// [booklet/compose] - The assignment table, row rotations and the draw loop
// with per-panel state tracking.
//
// [integrations] - HTTP clients for Last.fm, TfL, Mastodon, RSS feeds, Google
// Calendar, BBC Weather, Flickr and Google Static Maps.
//
// [observability] - Hooks for fetch, draw, cache and HTTP events;
// [telemetry] implements them with OpenTelemetry.
//
// [server] - Preview server that renders a fresh digest per request.
//
// [booklet]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet
// [booklet/grid]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/grid
// [booklet/content]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/content
// [booklet/compose]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/compose
// [content.Producer]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/content#Producer
// [config]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/config
// [sources]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/sources
// [integrations]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/integrations
// [render/pdf]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/render/pdf
// [pipeline]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/observability
// [telemetry]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/telemetry
// [server]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/server
package pkg
