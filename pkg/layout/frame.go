package layout

import (
	"math"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// Default parameters for the genome-scale frame.
const (
	DefaultBaseWidth   int64 = 100
	DefaultBorderWidth int64 = 3
)

// Point is a pixel coordinate. X grows right, Y grows down.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Frame is an ordered list of levels plus the pixel origin where position
// zero is drawn. A Frame is immutable after construction; the With* and
// Rebuild methods return new frames.
type Frame struct {
	levels   []Level
	origin   Point
	capacity int64
}

// NewFrame builds a frame from per-level moduli and paddings.
//
// paddings may be shorter than modulos (or nil): missing entries at level 0
// and 1 default to zero and entries at higher levels default to three times
// the padding of the level below. Every modulo must be positive and at
// least two levels are required.
func NewFrame(modulos, paddings []int64, origin Point) (*Frame, error) {
	if len(modulos) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "a frame needs at least 2 levels, got %d", len(modulos))
	}
	if len(paddings) > len(modulos) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%d paddings given for %d levels", len(paddings), len(modulos))
	}
	for i, m := range modulos {
		if m <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "level %d: modulo %d must be positive", i, m)
		}
	}
	for i, p := range paddings {
		if p < 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "level %d: padding %d must not be negative", i, p)
		}
	}

	pads := make([]int64, len(modulos))
	copy(pads, paddings)
	for i := len(paddings); i < len(modulos); i++ {
		if i >= 2 {
			pads[i] = 3 * pads[i-1]
		}
	}

	levels := baseLevels(modulos, pads)
	for i := 2; i < len(modulos); i++ {
		prev := levels[i-1]
		if prev.ChunkSize > math.MaxInt64/prev.Modulo {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "level %d: chunk size overflows", i)
		}
		levels = append(levels, derivedLevel(levels, modulos[i], pads[i]))
	}

	top := levels[len(levels)-1]
	if top.ChunkSize > math.MaxInt64/top.Modulo {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "frame capacity overflows")
	}

	return &Frame{
		levels:   levels,
		origin:   origin,
		capacity: top.Span(),
	}, nil
}

// DefaultModuli returns the genome-scale hierarchy for the given base width:
// lines of baseWidth nucleotides, columns of 10*baseWidth lines, rows of 100
// columns, tiles of 6 rows and up to 999 tiles.
func DefaultModuli(baseWidth int64) (modulos, paddings []int64) {
	return []int64{baseWidth, baseWidth * 10, 100, 6, 999},
		[]int64{0, 0, 3, 9, 777}
}

// DefaultFrame returns the genome-scale frame. The origin is inset by
// max(borderWidth, column padding) on both axes.
func DefaultFrame(baseWidth, borderWidth int64) (*Frame, error) {
	if baseWidth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "base width %d must be positive", baseWidth)
	}
	mods, pads := DefaultModuli(baseWidth)
	inset := int(max(borderWidth, pads[2]))
	return NewFrame(mods, pads, Point{X: inset, Y: inset})
}

// Len returns the number of levels.
func (f *Frame) Len() int { return len(f.levels) }

// Level returns level i. It panics if i is out of range.
func (f *Frame) Level(i int) Level { return f.levels[i] }

// Levels returns a copy of all levels, innermost first.
func (f *Frame) Levels() []Level {
	out := make([]Level, len(f.levels))
	copy(out, f.levels)
	return out
}

// Previous returns the level immediately below i.
func (f *Frame) Previous(i int) (Level, bool) {
	if i < 1 || i > len(f.levels) {
		return Level{}, false
	}
	return f.levels[i-1], true
}

// ParallelLevel returns the level two below i, the nearest one that shares
// i's axis.
func (f *Frame) ParallelLevel(i int) (Level, bool) {
	if i < 2 || i > len(f.levels)+1 {
		return Level{}, false
	}
	return f.levels[i-2], true
}

// Origin returns the pixel offset of position zero.
func (f *Frame) Origin() Point { return f.origin }

// BaseWidth returns the number of positions in one line.
func (f *Frame) BaseWidth() int64 { return f.levels[0].Modulo }

// Capacity returns the number of addressable positions
// (top ChunkSize * top Modulo).
func (f *Frame) Capacity() int64 { return f.capacity }

// Modulos returns the modulo of each level.
func (f *Frame) Modulos() []int64 {
	out := make([]int64, len(f.levels))
	for i, l := range f.levels {
		out[i] = l.Modulo
	}
	return out
}

// Paddings returns the padding of each level.
func (f *Frame) Paddings() []int64 {
	out := make([]int64, len(f.levels))
	for i, l := range f.levels {
		out[i] = l.Padding
	}
	return out
}

// Rebuild derives a new frame from modulos while keeping the current
// paddings and origin. Extra levels get default paddings.
func (f *Frame) Rebuild(modulos []int64) (*Frame, error) {
	pads := f.Paddings()
	if len(pads) > len(modulos) {
		pads = pads[:len(modulos)]
	}
	return NewFrame(modulos, pads, f.origin)
}

// WithPadding returns a copy of f whose level i uses padding v. Level i
// is adjusted with SetPadding and every derived thickness above it is
// recomputed.
func (f *Frame) WithPadding(i int, v int64) (*Frame, error) {
	if i < 0 || i >= len(f.levels) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "level %d does not exist", i)
	}
	levels := f.Levels()
	if err := levels[i].SetPadding(v); err != nil {
		return nil, err
	}
	for j := max(i+1, 2); j < len(levels); j++ {
		par := levels[j-2]
		levels[j].Thickness = par.Modulo*par.Thickness + levels[j].Padding
	}
	return &Frame{levels: levels, origin: f.origin, capacity: f.capacity}, nil
}

// WithOrigin returns a copy of f drawn from origin p.
func (f *Frame) WithOrigin(p Point) *Frame {
	return &Frame{levels: f.Levels(), origin: p, capacity: f.capacity}
}

// RelativePosition maps a logical index to a pixel offset from the origin.
func (f *Frame) RelativePosition(progress int64) (Point, error) {
	if progress < 0 || progress >= f.capacity {
		return Point{}, errors.OutOfBounds(progress, f.capacity)
	}
	var xy [2]int64
	for i := range f.levels {
		l := &f.levels[i]
		if progress < l.ChunkSize {
			break
		}
		digit := (progress / l.ChunkSize) % l.Modulo
		xy[i&1] += digit * l.Thickness
	}
	return Point{X: int(xy[0]), Y: int(xy[1])}, nil
}

// PositionOnScreen maps a logical index to an absolute pixel coordinate.
func (f *Frame) PositionOnScreen(progress int64) (Point, error) {
	p, err := f.RelativePosition(progress)
	if err != nil {
		return Point{}, err
	}
	return p.Add(f.origin), nil
}

// MaxDimensions returns the canvas size needed to draw imageLength
// positions, including origin inset and border.
//
// For every level the number of units actually used is
// min(ceil(imageLength/ChunkSize), Modulo); a level that uses more than one
// unit widens its axis to Thickness*count. The origin is added on both
// sides and the column padding (level 2) once more as a border.
func (f *Frame) MaxDimensions(imageLength int64) (width, height int) {
	var extent [2]int64
	for i, l := range f.levels {
		count := min(ceilDiv(imageLength, l.ChunkSize), l.Modulo)
		if count > 1 {
			extent[i&1] = max(extent[i&1], l.Thickness*count)
		}
	}
	w := extent[0] + int64(f.origin.X)
	h := extent[1] + int64(f.origin.Y)
	if len(f.levels) > 2 {
		w += f.levels[2].Padding
		h += f.levels[2].Padding
	}
	w += int64(f.origin.X)
	h += int64(f.origin.Y)
	return int(w), int(h)
}

// PackedCoordinate is one position of a column: its pixel offset from the
// column's first pixel and its sequence offset from the column's start.
type PackedCoordinate struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Offset int64 `json:"offset"`
}

// ColumnSize is the number of positions in one column (lines × line width).
func (f *Frame) ColumnSize() int64 { return f.levels[1].Span() }

// PackedCoordinates returns the layout of a single column, line by line.
// Every column of the frame has the same shape, so a whole column starting
// at a multiple of ColumnSize can be drawn from one PositionOnScreen call
// plus these offsets.
func (f *Frame) PackedCoordinates() []PackedCoordinate {
	line, lines := f.levels[0], f.levels[1]
	out := make([]PackedCoordinate, 0, line.Modulo*lines.Modulo)
	for y := int64(0); y < lines.Modulo; y++ {
		for x := int64(0); x < line.Modulo; x++ {
			out = append(out, PackedCoordinate{
				X:      int(x * line.Thickness),
				Y:      int(y * lines.Thickness),
				Offset: y*line.Modulo + x,
			})
		}
	}
	return out
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
