// Package layout maps linear sequence positions onto a two-dimensional image.
//
// # Overview
//
// A genome is far too long to draw as a single raster line. Instead the
// image plane is treated as a nested, mixed-radix coordinate system:
// nucleotides fill a line, lines fill a column, columns fill a row of
// columns, rows fill a tile and so on. Each scale of that hierarchy is a
// [Level]; the ordered list of levels plus a pixel origin is a [Frame].
//
// Levels alternate screen axes. Even levels advance along x, odd levels
// along y, so level 0 is "position within a line" (x), level 1 is "line
// within a column" (y), level 2 is "column within a row" (x) and so on.
//
// # Derivation
//
// Level 0 spans one position and one pixel. Level 1 spans one full line
// (levels[0].Modulo positions) and one pixel. Every higher level derives
// its numbers from the levels below it:
//
//	ChunkSize[i] = Modulo[i-1] * ChunkSize[i-1]
//	Thickness[i] = Modulo[i-2] * Thickness[i-2] + Padding[i]
//
// Thickness accumulates from two levels back because that level shares the
// same screen axis. When a padding is not supplied it defaults to three
// times the padding of the level below, which keeps gaps proportionally
// readable at every zoom scale.
//
// # Coordinates
//
// [Frame.RelativePosition] decodes a position the way positional notation
// decodes a number: the digit at each level is (progress / ChunkSize) mod
// Modulo and contributes digit * Thickness pixels to that level's axis.
// The walk stops at the first level whose chunk the position has not
// reached. Positions outside [0, Frame.Capacity) return an OUT_OF_BOUNDS
// error instead of wrapping onto pixels that were already drawn.
//
//	f, _ := layout.DefaultFrame(layout.DefaultBaseWidth, layout.DefaultBorderWidth)
//	p, err := f.PositionOnScreen(1_234_567)
//
// # Custom layouts
//
// [ParseCustomLayout] reads the "([moduli], [paddings])" syntax accepted on
// the command line so a caller can bypass the default derivation entirely:
//
//	mods, pads, _ := layout.ParseCustomLayout("([10,100,100,10,3,999], [0,0,0,3,18,108])")
//	f, _ := layout.NewFrame(mods, pads, layout.Point{})
//
// # Serialization
//
// [Frame.Description] captures modulo, chunk size, padding and thickness of
// every level together with the origin, so an interactive viewer can rebuild
// the same mapping with [FromDescription].
package layout
