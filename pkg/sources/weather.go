package sources

import (
	"context"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/bbcweather"
)

// Weather lists the BBC forecast one day per paragraph.
//
// Options: title, days.
var Weather = &Source{
	Name:        "weather",
	Description: "BBC Weather forecast",
	Aliases:     []string{"forecast", "bbc"},
	New: func(env Env) content.Producer {
		cfg := env.Services.Weather
		cfg.Days = env.Slot.Options.Int("days", cfg.Days)
		c := bbcweather.NewClient(env.Cache, env.Settings, cfg)
		return content.ProducerFunc(func(ctx context.Context) ([]content.Block, error) {
			days, err := c.Forecast(ctx, env.Refresh)
			if err != nil {
				return nil, err
			}
			return formatWeather(env, days), nil
		})
	},
}

func formatWeather(env Env, days []bbcweather.Day) []content.Block {
	blocks := heading(env, "Weather")
	for _, d := range days {
		runs := []content.Run{content.Bold("%s", d.Name)}
		if d.Summary != "" {
			runs = append(runs, content.Break(), content.Plain("%s", d.Summary))
		}
		switch {
		case d.High != "" && d.Low != "":
			runs = append(runs, content.Plain(", %s / %s", d.High, d.Low))
		case d.High != "":
			runs = append(runs, content.Plain(", %s", d.High))
		case d.Low != "":
			runs = append(runs, content.Plain(", low %s", d.Low))
		}
		blocks = append(blocks, content.Paragraph(content.StyleEvent, runs...))
	}
	return blocks
}
