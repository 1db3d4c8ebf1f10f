package pdf

import (
	"bytes"
	"sync"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

var pdfcpuOnce sync.Once

// Validate checks that data is a structurally valid PDF.
func Validate(data []byte) error {
	// pdfcpu otherwise creates a config directory under the user's home.
	pdfcpuOnce.Do(api.DisableConfigDir)

	if err := api.Validate(bytes.NewReader(data), model.NewDefaultConfiguration()); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "invalid pdf")
	}
	return nil
}

// PageCount returns the number of pages in data.
func PageCount(data []byte) (int, error) {
	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeRender, err, "read pdf")
	}
	return r.NumPage(), nil
}
