package sources

import (
	"context"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/flickr"
)

// Photo fills the panel with today's most interesting Flickr photo and its
// caption.
var Photo = &Source{
	Name:        "photo",
	Description: "Flickr interesting photo of the day",
	Aliases:     []string{"flickr"},
	New: func(env Env) content.Producer {
		c := flickr.NewClient(env.Cache, env.Settings, env.Services.Flickr)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			photos, err := c.Interesting(ctx, 1, env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatPhoto(env, photos), nil
		})
	},
}

func formatPhoto(env Env, photos []flickr.Photo) []content.Block {
	if len(photos) == 0 {
		return Fallback(env.Slot.Label)
	}
	p := photos[0]
	w, h := env.available()

	caption := p.Title
	if p.Owner != "" {
		if caption != "" {
			caption += " by " + p.Owner
		} else {
			caption = "by " + p.Owner
		}
	}

	blocks := []content.Block{
		content.Image{URL: p.URL, Width: w, Height: h * 0.8, Alt: caption},
	}
	if caption != "" {
		blocks = append(blocks,
			content.Spacer{Height: 4},
			content.Paragraph(content.StyleSmall, content.Plain("%s", caption)),
		)
	}
	return blocks
}
