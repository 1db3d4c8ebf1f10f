// Package compose binds fetched content to grid panels and drives the drawing
// backend panel by panel.
//
// # Overview
//
// Composition happens in two steps:
//
//  1. [Plan] takes a computed [grid.Layout], a static [Table] of labels and
//     row classes, and the content fetched for each panel. It returns one
//     [Instruction] per panel that has an entry in the content table, ordered
//     by ascending column and then ascending row. Panels without an entry are
//     skipped. Instructions for top rows carry the [Rotation] that turns the
//     panel upside-down for the pocketmod fold.
//
//  2. [Draw] walks the instructions against a [Canvas]. Every panel is drawn
//     inside its own save/restore pair, so a rotation never outlives the panel
//     it belongs to, even when drawing fails or panics.
//
// Plan is pure and deterministic: identical inputs give identical instruction
// slices. Draw is strictly sequential.
//
// # Row classes
//
// Folding a pocketmod sheet turns the upper half of the page upside-down. The
// rows that need this are declared explicitly with [RowTop]; there is no rule
// that infers them from the grid shape. [Pocketmod] returns the table for the
// standard 4x2 booklet.
//
// # Failure handling
//
// Plan only fails on configuration problems (content or labels addressed to
// panels outside the grid, a row table that does not match the grid). A panel
// whose content fetch failed still appears with an empty block list. Draw
// never fails as a whole: per-panel errors are collected in the [Report].
package compose
