package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/pipeline"
	"github.com/pocketdigest/pocketdigest/pkg/sources"
)

// sourcesCommand creates the sources command with subcommands.
func (c *CLI) sourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List content sources or fetch the configured ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSources()
			return nil
		},
	}
	cmd.AddCommand(c.sourcesFetchCommand())
	return cmd
}

func printSources() {
	printTitle("Sources")
	for _, s := range sources.All {
		printKeyValue(s.Name, s.Description)
		if len(s.Aliases) > 0 {
			printDetail("aliases: %s", strings.Join(s.Aliases, ", "))
		}
	}
}

// sourcesFetchCommand fetches every slot and prints what each panel would
// show.
func (c *CLI) sourcesFetchCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch [panel...]",
		Short: "Fetch the configured sources and print their text",
		Long: `Fetch the content of every configured panel and print it as text.
Panels are named column-row, e.g. 0-1. Nothing is drawn.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runFetch(cmd.Context(), cfg, args, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached responses")
	return cmd
}

func (c *CLI) runFetch(ctx context.Context, cfg *config.Config, only []string, refresh bool) error {
	stop := c.startTelemetry(ctx, cfg)
	defer stop()

	var (
		contents compose.Contents
		failed   []pipeline.Failure
	)
	err := spin(ctx, "Fetching sources...", func() (err error) {
		contents, failed, err = c.newRunner().Collect(ctx, pipeline.Options{Config: cfg, Refresh: refresh})
		return err
	})
	if err != nil {
		return err
	}

	failures := make(map[grid.PanelID]pipeline.Failure, len(failed))
	for _, f := range failed {
		failures[f.Panel] = f
	}

	for _, slot := range cfg.ResolvedSlots() {
		id := grid.PanelID{Column: slot.Column, Row: slot.Row}
		if len(only) > 0 && !slices.Contains(only, id.String()) {
			continue
		}
		printTitle(id.String(), StyleHighlight.Render(slot.Source), slot.Label)
		if f, ok := failures[id]; ok {
			printWarning("%v", f.Err)
		}
		for _, line := range blockLines(contents[id]) {
			fmt.Fprintln(out, "  "+line)
		}
		printNewline()
	}
	return nil
}

// blockLines renders blocks as indented plain text.
func blockLines(blocks []content.Block) []string {
	var lines []string
	for _, b := range blocks {
		switch b := b.(type) {
		case content.Text:
			text := b.PlainText()
			if b.Image != nil {
				text = "[img] " + text
			}
			for _, l := range strings.Split(text, "\n") {
				lines = append(lines, StyleValue.Render(l))
			}
		case content.Image:
			alt := b.Alt
			if alt == "" {
				alt = b.URL
			}
			lines = append(lines, StyleDim.Render("[image] "+alt))
		}
	}
	return lines
}
