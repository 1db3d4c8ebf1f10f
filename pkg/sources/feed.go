package sources

import (
	"context"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/mastodon"
)

const defaultFeedLimit = 10

// Feed lists the newest posts of the home timeline.
//
// Options: title, limit.
var Feed = &Source{
	Name:        "feed",
	Description: "Mastodon home timeline",
	Aliases:     []string{"mastodon", "social"},
	New: func(env Env) content.Producer {
		c := mastodon.NewClient(env.Cache, env.Settings, env.Services.Mastodon)
		limit := env.Slot.Options.Int("limit", defaultFeedLimit)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			statuses, err := c.Home(ctx, limit, env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatFeed(env, statuses), nil
		})
	},
}

func formatFeed(env Env, statuses []mastodon.Status) []content.Block {
	blocks := heading(env, "Feed")
	for _, s := range statuses {
		if s.Text == "" {
			continue
		}
		blocks = append(blocks, content.Paragraph(content.StyleEvent,
			content.Bold("%s", s.Author),
			content.Plain(" %s", s.Text),
		))
	}
	return blocks
}
