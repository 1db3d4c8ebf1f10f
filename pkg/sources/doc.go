// Package sources turns service data into booklet content.
//
// Each [Source] names a kind of panel content ("transit", "events", "news",
// ...) and builds a [content.Producer] for one slot from an [Env]. The
// producer calls the matching client in pkg/integrations and formats the
// result as blocks sized for the slot's panel.
//
// Sources never decide what happens on failure: a producer returns the
// client's error and the pipeline replaces the panel with its label.
//
//	src := sources.Find("weather")
//	blocks, err := content.Collect(ctx, src.Name, src.New(env))
package sources
