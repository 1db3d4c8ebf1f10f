// Package booklet groups the page model of a digest.
//
// [grid] computes where panels are, [content] describes what goes in them and
// [compose] decides which content lands in which panel, which way up it is
// drawn and in what order.
//
// [grid]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/grid
// [content]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/content
// [compose]: https://pkg.go.dev/github.com/pocketdigest/pocketdigest/pkg/booklet/compose
package booklet
