package pdf

import (
	"strconv"
	"strings"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// flow lays blocks out top to bottom inside one panel's content box.
type flow struct {
	c      *Canvas
	panel  grid.PanelID
	left   float64
	width  float64
	bottom float64
	y      float64
	errs   []error
}

// place draws b at the cursor and advances it. It returns false, drawing
// nothing, when b does not fit in the remaining height.
func (p *flow) place(b content.Block) bool {
	switch b := b.(type) {
	case content.Text:
		return p.text(b)
	case content.Image:
		return p.image(b)
	case content.Spacer:
		if p.y+b.Height > p.bottom {
			return false
		}
		p.y += b.Height
		return true
	default:
		p.errs = append(p.errs, errors.New(errors.ErrCodeRender, "panel %s: unsupported block %T", p.panel, b))
		return true
	}
}

func (p *flow) remaining() float64 { return p.bottom - p.y }

func (p *flow) text(t content.Text) bool {
	st := styleFor(t.Style)
	f := p.c.pdf

	var (
		img        registeredImage
		imgW, imgH float64
		indent     float64
	)
	if t.Image != nil {
		boxW, boxH := t.Image.Width, t.Image.Height
		if boxW <= 0 {
			boxW = st.imageSize
		}
		if boxH <= 0 {
			boxH = st.imageSize
		}
		img = p.c.loadImage(t.Image.URL, boxW, boxH)
		if img.err != nil {
			p.errs = append(p.errs, img.err)
		} else {
			imgW, imgH = aspectFit(float64(img.width), float64(img.height), boxW, boxH)
			indent = imgW + st.imageGap
		}
	}

	textW := p.width - indent
	lines := p.measure(t, st, textW)
	height := float64(lines) * st.leading
	if imgH > height {
		height = imgH
	}
	if height > p.remaining() {
		return false
	}

	if imgH > 0 {
		p.c.drawImage(img, p.left, p.y, imgW, imgH)
	}

	if lines > 0 {
		f.SetLeftMargin(p.left + indent)
		f.SetRightMargin(p.c.width - (p.left + p.width))
		f.SetXY(p.left+indent, p.y)
		for _, r := range t.Runs {
			if r.Break {
				f.Ln(st.leading)
				continue
			}
			if r.Text == "" {
				continue
			}
			f.SetFont(fontFamily, st.fontStyle(r.Bold), st.size)
			p.setColor(r.Color)
			f.Write(st.leading, p.c.text(r.Text))
		}
		f.SetTextColor(0, 0, 0)
	}

	p.y += height + st.spaceAfter
	if p.y > p.bottom {
		p.y = p.bottom
	}
	return true
}

// measure returns the number of lines t wraps to at width w. Bold runs are
// measured in bold so the estimate never comes out short.
func (p *flow) measure(t content.Text, st style, w float64) int {
	if len(t.Runs) == 0 || w <= 0 {
		return 0
	}
	bold := st.bold
	for _, r := range t.Runs {
		bold = bold || r.Bold
	}
	f := p.c.pdf
	f.SetFont(fontFamily, st.fontStyle(bold), st.size)

	text := p.c.text(t.PlainText())
	if strings.TrimSpace(text) == "" {
		return strings.Count(text, "\n")
	}
	n := len(f.SplitLines([]byte(text), w))
	// SplitLines drops trailing newlines that Write still honours.
	n += len(text) - len(strings.TrimRight(text, "\n"))
	return n
}

func (p *flow) setColor(hex string) {
	r, g, b, ok := parseHex(hex)
	if !ok {
		p.c.pdf.SetTextColor(0, 0, 0)
		return
	}
	p.c.pdf.SetTextColor(r, g, b)
}

func (p *flow) image(im content.Image) bool {
	boxW, boxH := im.Width, im.Height
	if boxW <= 0 || boxW > p.width {
		boxW = p.width
	}
	if boxH <= 0 {
		boxH = boxW
	}

	img := p.c.loadImage(im.URL, boxW, boxH)
	if img.err != nil {
		p.errs = append(p.errs, img.err)
		if im.Alt == "" {
			return true
		}
		return p.text(content.Paragraph(content.StyleSmall, content.Plain("%s", im.Alt)))
	}

	w, h := aspectFit(float64(img.width), float64(img.height), boxW, boxH)
	if h > p.remaining() {
		return false
	}
	p.c.drawImage(img, p.left, p.y, w, h)
	p.y += h
	return true
}

func parseHex(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
