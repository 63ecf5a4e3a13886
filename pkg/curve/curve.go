// Package curve lays a sequence along a space-filling curve.
//
// The raster layout in package layout keeps neighbouring positions on the
// same line but sends a line's end far away from the next line's start. A
// curve keeps nearby indices visually nearby at every scale, which suits
// single-chromosome "ideogram" views.
//
// The curve is a generalised Murray polygon. Two radix vectors, one per
// screen axis, are interleaved into a single mixed-radix odometer
// [x0, y0, x1, y1, ...]. Each step increments the odometer; the digit that
// changed selects which axis moves and a table of parities decides the
// direction, flipping every time a lower digit rolls over. With odd radices
// this traces a boustrophedon path at every level that visits every grid
// cell exactly once.
//
// Coordinates are precomputed by [Curve.Build] for the longest sequence to
// draw; lookups afterwards are O(1):
//
//	c, err := curve.New([]int{3, 3, 3}, []int{3, 3, 3}, curve.WithGap(1))
//	if err != nil {
//	    return err
//	}
//	c.Build(seqLen)
//	p, err := c.PositionOnScreen(i)
package curve

import (
	"math"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
)

// Curve maps sequence indices to points along a space-filling curve.
type Curve struct {
	xRadices []int
	yRadices []int
	origin   layout.Point
	gap      int
	scaleX   int
	scaleY   int

	total  int64 // grid cells, product of all radices
	points []layout.Point
}

// Option configures a Curve.
type Option func(*Curve)

// WithOrigin sets the pixel offset of the first point.
func WithOrigin(p layout.Point) Option {
	return func(c *Curve) { c.origin = p }
}

// WithGap inserts px blank pixels after every xRadices[0] grid columns and
// every yRadices[0] grid rows. The gap is positional: it shifts every cell
// past a block boundary on that axis, whichever way the path crosses it.
func WithGap(px int) Option {
	return func(c *Curve) { c.gap = px }
}

// WithScale stretches the curve by the given factors. Only 1, 1 is
// supported; other values make New fail with UNSUPPORTED.
func WithScale(x, y int) Option {
	return func(c *Curve) { c.scaleX, c.scaleY = x, y }
}

// New validates the radices and returns an unbuilt curve.
//
// Both vectors must be non-empty and every radix must be a positive odd
// number. Even radices end a pass on the wrong side of the block and the
// next pass would revisit cells.
func New(xRadices, yRadices []int, opts ...Option) (*Curve, error) {
	c := &Curve{
		xRadices: append([]int(nil), xRadices...),
		yRadices: append([]int(nil), yRadices...),
		scaleX:   1,
		scaleY:   1,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.scaleX != 1 || c.scaleY != 1 {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"curve scale %dx%d not implemented (only 1x1)", c.scaleX, c.scaleY)
	}
	if len(c.xRadices) == 0 || len(c.yRadices) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "curve needs at least one x and one y radix")
	}
	if c.gap < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "curve gap %d must not be negative", c.gap)
	}
	if c.origin.X < 0 || c.origin.Y < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "curve origin must not be negative")
	}

	c.total = 1
	for axis, radices := range [][]int{c.xRadices, c.yRadices} {
		for i, r := range radices {
			if r <= 0 || r%2 == 0 {
				return nil, errors.New(errors.ErrCodeInvalidConfig,
					"%s radix %d is %d; radices must be positive and odd", layout.Axis(axis), i, r)
			}
			if c.total > math.MaxInt64/int64(r) {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "curve has too many points")
			}
			c.total *= int64(r)
		}
	}
	return c, nil
}

// TotalPoints returns the number of grid cells the curve spans.
func (c *Curve) TotalPoints() int64 { return c.total }

// Capacity returns the number of indices Build can map, TotalPoints-1.
func (c *Curve) Capacity() int64 { return c.total - 1 }

// Build precomputes the points for indices 0..min(seqLen, Capacity())-1.
// Calling it again replaces the previous mapping.
func (c *Curve) Build(seqLen int64) error {
	if seqLen < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sequence length %d must not be negative", seqLen)
	}
	n := min(seqLen, c.Capacity())

	dim := max(len(c.xRadices), len(c.yRadices))
	radices := make([]int, 2*dim)
	for i := range radices {
		radices[i] = 1
	}
	for i, r := range c.xRadices {
		radices[2*i] = r
	}
	for i, r := range c.yRadices {
		radices[2*i+1] = r
	}
	digits := make([]int, 2*dim)
	parities := make([][2]int, dim+1)
	for i := range parities {
		parities[i] = [2]int{1, 1}
	}

	// pos holds (y, x): odometer place p moves axis (p+1)%2.
	var pos [2]int
	points := make([]layout.Point, 0, n)
	for k := int64(0); k < n; k++ {
		place := increment(digits, radices)
		if place == len(digits) {
			break
		}
		for j := 0; j <= place/2; j++ {
			parities[j][place%2] *= -1
		}
		place++
		points = append(points, c.pixel(pos[1], pos[0]))
		pos[place%2] += parities[place/2][place%2]
	}
	c.points = points
	return nil
}

// increment adds one to the odometer and returns the place that absorbed
// the carry, or len(digits) if every digit rolled over.
func increment(digits, radices []int) int {
	for place := range digits {
		if digits[place] < radices[place]-1 {
			digits[place]++
			return place
		}
		digits[place] = 0
	}
	return len(digits)
}

// pixel maps a grid cell to its offset from the origin, adding the pass gap.
func (c *Curve) pixel(gx, gy int) layout.Point {
	return layout.Point{
		X: gx + c.gap*(gx/c.xRadices[0]),
		Y: gy + c.gap*(gy/c.yRadices[0]),
	}
}

// Len returns the number of mapped indices.
func (c *Curve) Len() int { return len(c.points) }

// Points returns the mapping. The slice is shared and must not be modified.
func (c *Curve) Points() []layout.Point { return c.points }

// RelativePosition returns the point of index i relative to the origin.
func (c *Curve) RelativePosition(i int64) (layout.Point, error) {
	if i < 0 || i >= int64(len(c.points)) {
		return layout.Point{}, errors.OutOfBounds(i, int64(len(c.points)))
	}
	return c.points[i], nil
}

// PositionOnScreen returns the absolute pixel of index i.
func (c *Curve) PositionOnScreen(i int64) (layout.Point, error) {
	p, err := c.RelativePosition(i)
	if err != nil {
		return layout.Point{}, err
	}
	return p.Add(c.origin), nil
}

// MaxDimensions returns the canvas size that holds the whole curve,
// with the origin inset on both sides.
func (c *Curve) MaxDimensions() (width, height int) {
	nx, ny := product(c.xRadices), product(c.yRadices)
	far := c.pixel(nx-1, ny-1)
	return far.X + 1 + 2*c.origin.X, far.Y + 1 + 2*c.origin.Y
}

func product(vs []int) int {
	p := 1
	for _, v := range vs {
		p *= v
	}
	return p
}
