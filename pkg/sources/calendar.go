package sources

import (
	"context"
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/gcal"
)

// Calendar lists today's events, each in its calendar's colour.
//
// Options: title.
var Calendar = &Source{
	Name:        "calendar",
	Description: "Google Calendar events for today",
	Aliases:     []string{"gcal"},
	New: func(env Env) content.Producer {
		c := gcal.NewClient(env.Cache, env.Settings, env.Services.Calendar)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			events, err := c.Day(ctx, env.now(), env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatCalendar(env, events), nil
		})
	},
}

func formatCalendar(env Env, events []gcal.Event) []content.Block {
	blocks := heading(env, "Today")
	if len(events) == 0 {
		return append(blocks, content.Paragraph(content.StyleEvent, content.Plain("Nothing scheduled")))
	}
	for _, e := range events {
		when := "All day"
		if !e.AllDay {
			when = strings.ToLower(e.Start.Format("3:04PM"))
		}
		blocks = append(blocks, content.Paragraph(content.StyleEvent,
			content.Colored(e.Color, "%s ", when),
			content.Plain("%s", e.Summary),
			content.Colored(e.Color, " %s", e.Calendar),
		))
	}
	return blocks
}
