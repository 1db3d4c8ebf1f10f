package sources

import (
	"context"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/news"
)

// Headlines lists the newest feed items.
//
// Options: title, limit, show_source.
var Headlines = &Source{
	Name:        "news",
	Description: "RSS and Atom headlines",
	Aliases:     []string{"headlines", "rss"},
	New: func(env Env) content.Producer {
		cfg := env.Services.News
		cfg.Limit = env.Slot.Options.Int("limit", cfg.Limit)
		c := news.NewClient(env.Cache, env.Settings, cfg)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			items, err := c.Headlines(ctx, env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatHeadlines(env, items), nil
		})
	},
}

func formatHeadlines(env Env, items []news.Item) []content.Block {
	showSource := env.Slot.Options.Bool("show_source", false)
	blocks := heading(env, "News")
	for _, it := range items {
		runs := []content.Run{content.Plain("%s", it.Title)}
		if showSource && it.Source != "" {
			runs = append(runs, content.Colored("#666666", " (%s)", it.Source))
		}
		blocks = append(blocks, content.Paragraph(content.StyleEvent, runs...))
	}
	return blocks
}
