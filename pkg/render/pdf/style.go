package pdf

import (
	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
)

const fontFamily = "Times"

// quarterInch is the default edge of an inline paragraph image.
const quarterInch = 18.0

// style is the resolved typography of a paragraph style, in points.
type style struct {
	size       float64
	leading    float64
	spaceAfter float64
	bold       bool
	imageSize  float64
	imageGap   float64
}

var styles = map[content.Style]style{
	content.StyleBody:    {size: 12, leading: 16, spaceAfter: 4, imageSize: quarterInch, imageGap: 4},
	content.StyleEvent:   {size: 8, leading: 10, spaceAfter: 10, imageSize: quarterInch, imageGap: 4},
	content.StyleHeading: {size: 14, leading: 18, spaceAfter: 6, bold: true, imageSize: quarterInch, imageGap: 4},
	content.StyleSmall:   {size: 7, leading: 9, spaceAfter: 2, imageSize: quarterInch / 2, imageGap: 2},
}

func styleFor(s content.Style) style {
	if st, ok := styles[s]; ok {
		return st
	}
	return styles[content.StyleBody]
}

func (s style) fontStyle(bold bool) string {
	if bold || s.bold {
		return "B"
	}
	return ""
}
