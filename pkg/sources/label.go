package sources

import (
	"context"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
)

// Label prints the slot's page label. It is also what a panel falls back to
// when its source fails.
var Label = &Source{
	Name:        "label",
	Description: "the panel's page label",
	Aliases:     []string{"placeholder"},
	New: func(env Env) content.Producer {
		return content.ProducerFunc(func(context.Context) ([]content.Block, error) {
			return Fallback(env.Slot.Label), nil
		})
	},
}

// Fallback is the content of a panel whose source produced nothing.
func Fallback(label string) []content.Block {
	if label == "" {
		return nil
	}
	return []content.Block{content.Paragraph(content.StyleBody, content.Plain("%s", label))}
}
