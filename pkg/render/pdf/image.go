package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	_ "golang.org/x/image/webp"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// ImageLoader fetches the raw bytes of an image.
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) ([]byte, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ctx context.Context, url string) ([]byte, error)

// LoadImage calls f.
func (f ImageLoaderFunc) LoadImage(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// oversample is the pixel density kept per point of drawn size.
const oversample = 2

type registeredImage struct {
	name          string
	width, height int
	err           error
}

// aspectFit scales (w, h) to fit inside (maxW, maxH) keeping its aspect ratio.
func aspectFit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

// normalizeImage decodes data and re-encodes it in a form gofpdf embeds
// reliably: 8-bit PNG for lossless sources, JPEG otherwise. Images larger than
// maxW x maxH pixels are downscaled.
func normalizeImage(data []byte, maxW, maxH int) (out []byte, imageType string, w, h int, err error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if maxW > 0 && maxH > 0 && (b.Dx() > maxW || b.Dy() > maxH) {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	} else {
		img = imaging.Clone(img)
	}

	var (
		buf bytes.Buffer
		f   imaging.Format
	)
	switch format {
	case "png", "gif":
		f, imageType = imaging.PNG, "PNG"
	default:
		f, imageType = imaging.JPEG, "JPG"
	}
	if err := imaging.Encode(&buf, img, f, imaging.JPEGQuality(85)); err != nil {
		return nil, "", 0, 0, fmt.Errorf("encode image: %w", err)
	}

	b = img.Bounds()
	return buf.Bytes(), imageType, b.Dx(), b.Dy(), nil
}

// loadImage returns the registered image for url, fetching and registering it
// on first use. Failures are remembered so a broken URL is tried only once.
func (c *Canvas) loadImage(url string, boxW, boxH float64) registeredImage {
	if img, ok := c.images[url]; ok {
		return img
	}
	img := c.registerImage(url, boxW, boxH)
	c.images[url] = img
	if img.err != nil {
		c.logger.Warn("image unavailable", "url", url, "error", img.err)
	}
	return img
}

func (c *Canvas) registerImage(url string, boxW, boxH float64) registeredImage {
	if url == "" {
		return registeredImage{err: errors.New(errors.ErrCodeRender, "image has no URL")}
	}
	if c.loader == nil {
		return registeredImage{err: errors.New(errors.ErrCodeRender, "no image loader configured")}
	}

	data, err := c.loader.LoadImage(c.ctx, url)
	if err != nil {
		return registeredImage{err: errors.Wrap(errors.ErrCodeRender, err, "load image %s", url)}
	}

	out, typ, w, h, err := normalizeImage(data, int(boxW*oversample), int(boxH*oversample))
	if err != nil {
		return registeredImage{err: errors.Wrap(errors.ErrCodeRender, err, "image %s", url)}
	}

	name := fmt.Sprintf("img%d", len(c.images))
	c.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(out))
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return registeredImage{err: errors.Wrap(errors.ErrCodeRender, err, "embed image %s", url)}
	}
	return registeredImage{name: name, width: w, height: h}
}

// drawImage places a registered image at (x, y) scaled into the box and
// returns the drawn size.
func (c *Canvas) drawImage(img registeredImage, x, y, boxW, boxH float64) (float64, float64) {
	w, h := aspectFit(float64(img.width), float64(img.height), boxW, boxH)
	c.pdf.ImageOptions(img.name, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
	return w, h
}
