package sources

import (
	"context"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/tfl"
)

// Transit lists line status, disrupted lines in bold.
//
// Options: title, disrupted_only.
var Transit = &Source{
	Name:        "transit",
	Description: "TfL line status",
	Aliases:     []string{"tfl", "tube"},
	New: func(env Env) content.Producer {
		c := tfl.NewClient(env.Cache, env.Settings, env.Services.TfL)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			lines, err := c.Status(ctx, env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatTransit(env, lines), nil
		})
	},
}

func formatTransit(env Env, lines []tfl.LineStatus) []content.Block {
	disruptedOnly := env.Slot.Options.Bool("disrupted_only", false)
	blocks := heading(env, "Transit")

	good := 0
	for _, l := range lines {
		if l.Good() {
			good++
			if disruptedOnly {
				continue
			}
			blocks = append(blocks, content.Paragraph(content.StyleEvent,
				content.Plain("%s: %s", l.Name, l.Description)))
			continue
		}
		blocks = append(blocks, content.Paragraph(content.StyleEvent,
			content.Bold("%s: %s", l.Name, l.Description)))
	}
	if disruptedOnly && good == len(lines) {
		blocks = append(blocks, content.Paragraph(content.StyleEvent, content.Plain("Good service on all lines")))
	}
	return blocks
}
