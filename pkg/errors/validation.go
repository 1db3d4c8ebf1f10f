package errors

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const maxOutputPath = 500

// ValidateOutputPath checks the file a digest is written to: a non-empty
// printable path, at most 500 bytes, naming a .pdf file rather than a
// directory.
func ValidateOutputPath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "output path is empty")
	case len(path) > maxOutputPath:
		return New(ErrCodeInvalidPath, "output path is longer than %d bytes", maxOutputPath)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "output path contains control characters")
	case strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)):
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	case !strings.EqualFold(filepath.Ext(path), ".pdf"):
		return New(ErrCodeInvalidPath, "output path %q must end in .pdf", path)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "bad URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// ValidateHexColor accepts "#rrggbb", "rrggbb" or "" for no colour.
func ValidateHexColor(s string) error {
	if s != "" && !hexColor.MatchString(s) {
		return New(ErrCodeInvalidInput, "colour %q is not #rrggbb", s)
	}
	return nil
}
