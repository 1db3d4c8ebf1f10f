// Package pdf is the gofpdf drawing backend for a booklet page.
//
// A [Canvas] owns one single-page document and implements the compose
// canvas contract: save and restore map to a PDF graphics-state pair, a
// rotation becomes a translate and rotate pair inside it, and each panel is
// clipped to its rectangle before its blocks are flowed top to bottom.
//
// Text uses the PDF core Times family, so no font files are needed. Strings
// are converted to Windows-1252 before drawing; characters outside that code
// page are replaced.
//
// Images are fetched through an [ImageLoader], decoded (PNG, JPEG, GIF and
// WebP), downscaled with imaging and re-encoded before they are embedded. An
// image that cannot be loaded is a render error for that block only: the
// paragraph is drawn without it, a standalone image falls back to its alt
// text, and the rest of the panel is unaffected.
//
// Blocks that do not fit in what is left of the panel are dropped and counted.
//
// [Validate] and [PageCount] inspect finished documents; the pipeline uses them
// to sanity-check its output and the tests use them to check structure.
package pdf
