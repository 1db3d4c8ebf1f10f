package pdf

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/compose"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Metadata is written to the document information dictionary.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
	Created time.Time
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithImageLoader sets the loader used for image blocks. Without one every
// image falls back to text.
func WithImageLoader(l ImageLoader) Option {
	return func(c *Canvas) { c.loader = l }
}

// WithBoundaries outlines every panel, which helps when checking a fold.
func WithBoundaries(on bool) Option {
	return func(c *Canvas) { c.boundaries = on }
}

// WithMetadata sets the document information.
func WithMetadata(m Metadata) Option {
	return func(c *Canvas) { c.meta = m }
}

// WithLogger sets the logger for per-block diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Canvas) { c.logger = l }
}

// Canvas draws booklet panels onto one PDF page.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	pdf        *gofpdf.Fpdf
	ctx        context.Context
	width      float64
	height     float64
	loader     ImageLoader
	logger     *log.Logger
	boundaries bool
	meta       Metadata
	encoder    *encoding.Encoder
	images     map[string]registeredImage
	depth      int
	dropped    int
}

var _ compose.Canvas = (*Canvas)(nil)

// New starts a document with a single page of width x height points. ctx
// bounds image fetches made while drawing.
func New(ctx context.Context, width, height float64, opts ...Option) (*Canvas, error) {
	if !(width > 0) || !(height > 0) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "page size must be positive, got %vx%v", width, height)
	}

	c := &Canvas{
		ctx:     ctx,
		width:   width,
		height:  height,
		logger:  log.New(io.Discard),
		encoder: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
		images:  make(map[string]registeredImage),
	}
	for _, o := range opts {
		o(c)
	}

	// "P" keeps the size as given; landscape pages are passed already swapped.
	f := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	f.SetAutoPageBreak(false, 0)
	f.SetMargins(0, 0, 0)
	f.SetCellMargin(0)
	f.SetCatalogSort(true)
	if m := c.meta; !m.Created.IsZero() {
		f.SetCreationDate(m.Created)
	}
	if m := c.meta; m.Title != "" {
		f.SetTitle(c.text(m.Title), false)
	}
	if m := c.meta; m.Author != "" {
		f.SetAuthor(c.text(m.Author), false)
	}
	if m := c.meta; m.Subject != "" {
		f.SetSubject(c.text(m.Subject), false)
	}
	if m := c.meta; m.Creator != "" {
		f.SetCreator(c.text(m.Creator), false)
	}
	f.AddPage()
	f.SetFont(fontFamily, "", styles[content.StyleBody].size)
	c.pdf = f

	if f.Err() {
		return nil, errors.Wrap(errors.ErrCodeRender, f.Error(), "start document")
	}
	return c, nil
}

// Size returns the page size in points.
func (c *Canvas) Size() (float64, float64) { return c.width, c.height }

// Dropped returns the number of blocks dropped because they did not fit.
func (c *Canvas) Dropped() int { return c.dropped }

// SaveState pushes the graphics state.
func (c *Canvas) SaveState() {
	c.depth++
	c.pdf.TransformBegin()
}

// RestoreState pops the graphics state pushed by the matching SaveState.
func (c *Canvas) RestoreState() {
	if c.depth == 0 {
		return
	}
	c.depth--
	c.pdf.TransformEnd()
}

// Apply composes r with the current transform: content is rotated about the
// page origin and then translated.
func (c *Canvas) Apply(r compose.Rotation) {
	c.pdf.TransformTranslate(r.TranslateX, r.TranslateY)
	// gofpdf turns positive angles counter-clockwise on the sheet.
	c.pdf.TransformRotate(-r.Degrees, 0, 0)
}

// DrawPanel clips to the panel and flows blocks through its padded box.
func (c *Canvas) DrawPanel(g grid.Geometry, blocks []content.Block) error {
	f := c.pdf

	f.ClipRect(g.X, g.Y, g.Width, g.Height, false)
	defer f.ClipEnd()

	if c.boundaries {
		f.SetDrawColor(160, 160, 160)
		f.SetLineWidth(0.5)
		f.Rect(g.X, g.Y, g.Width, g.Height, "D")
	}

	x, y, w, h := g.Inner()
	if w <= 0 || h <= 0 {
		if len(blocks) > 0 {
			c.dropped += len(blocks)
			c.logger.Warn("panel has no room for content", "panel", g.ID, "dropped", len(blocks))
		}
		return nil
	}

	p := &flow{c: c, panel: g.ID, left: x, width: w, bottom: y + h, y: y}
	for i, b := range blocks {
		if !p.place(b) {
			rest := len(blocks) - i
			c.dropped += rest
			c.logger.Debug("panel overflow", "panel", g.ID, "dropped", rest)
			break
		}
	}

	f.SetLeftMargin(0)
	f.SetRightMargin(0)

	if f.Err() {
		err := f.Error()
		f.ClearError()
		p.errs = append(p.errs, err)
	}
	if len(p.errs) > 0 {
		return errors.Wrap(errors.ErrCodeRender, stderrors.Join(p.errs...), "panel %s", g.ID)
	}
	return nil
}

// Output writes the finished document to w. The canvas cannot be drawn on
// afterwards.
func (c *Canvas) Output(w io.Writer) error {
	for c.depth > 0 {
		c.RestoreState()
	}
	if err := c.pdf.Output(w); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "write pdf")
	}
	return nil
}

// Bytes finishes the document and returns it.
func (c *Canvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// text converts s to the core-font code page.
func (c *Canvas) text(s string) string {
	out, err := c.encoder.String(s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if r < 0x80 {
				return r
			}
			return '?'
		}, s)
	}
	return out
}
