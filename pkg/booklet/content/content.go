// Package content defines the drawable blocks a panel is filled with and the
// producer contract that data sources implement.
//
// A panel's content is an ordered list of [Block] values. Blocks are plain
// data: the rendering backend decides fonts, line breaking and image placement
// from the block's [Style]. Producers never draw.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Block is one drawable element of a panel. The set of implementations is
// closed: [Text], [Image] and [Spacer].
type Block interface {
	block()
}

// Style names a paragraph style understood by the renderer.
type Style string

const (
	StyleBody    Style = "body"    // regular paragraph text
	StyleEvent   Style = "event"   // small list entry with optional leading image
	StyleHeading Style = "heading" // panel title
	StyleSmall   Style = "small"   // footnotes, timestamps
)

// Run is a span of text inside a paragraph.
type Run struct {
	Text  string
	Bold  bool
	Color string // "#rrggbb"; empty uses the style default
	Break bool   // line break; Text is ignored
}

// Text is a paragraph built from runs, optionally led by a small image that the
// text hangs beside.
type Text struct {
	Style Style
	Image *Image
	Runs  []Run
}

// Image is a raster image loaded by URL. Width and Height are the target box
// in page units; the image is scaled to fit inside it.
type Image struct {
	URL    string
	Width  float64
	Height float64
	Alt    string
}

// Spacer is vertical whitespace.
type Spacer struct {
	Width  float64
	Height float64
}

func (Text) block()   {}
func (Image) block()  {}
func (Spacer) block() {}

// PlainText returns the concatenated text of the paragraph with breaks
// rendered as newlines.
func (t Text) PlainText() string {
	var sb strings.Builder
	for _, r := range t.Runs {
		if r.Break {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Paragraph builds a Text block in the given style.
func Paragraph(style Style, runs ...Run) Text {
	return Text{Style: style, Runs: runs}
}

// Plain returns a regular run.
func Plain(format string, args ...any) Run {
	return Run{Text: sprintf(format, args...)}
}

// Bold returns a bold run.
func Bold(format string, args ...any) Run {
	return Run{Text: sprintf(format, args...), Bold: true}
}

// Colored returns a run drawn in the given "#rrggbb" colour.
func Colored(color, format string, args ...any) Run {
	return Run{Text: sprintf(format, args...), Color: color}
}

// Break returns a line break run.
func Break() Run { return Run{Break: true} }

// Label returns the single-paragraph fallback content used when a panel has
// only its configured label to show.
func Label(text string) []Block {
	if text == "" {
		return nil
	}
	return []Block{Paragraph(StyleHeading, Bold("%s", text))}
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Producer supplies the blocks for one panel.
//
// Implementations may block on network I/O and should honour ctx. A producer
// that fails returns an error; the caller decides whether the panel is left
// empty or gets fallback content.
type Producer interface {
	Produce(ctx context.Context) ([]Block, error)
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(ctx context.Context) ([]Block, error)

// Produce calls f.
func (f ProducerFunc) Produce(ctx context.Context) ([]Block, error) { return f(ctx) }

// Collect runs p and normalises its failure modes. Errors, including panics
// inside the producer, come back as CONTENT_FETCH errors with nil blocks.
func Collect(ctx context.Context, name string, p Producer) (blocks []Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			blocks = nil
			err = errors.New(errors.ErrCodeContentFetch, "source %s panicked: %v", name, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeContentFetch, err, "source %s", name)
	}

	blocks, err = p.Produce(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCodeContentFetch) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeContentFetch, err, "source %s", name)
	}
	return blocks, nil
}
