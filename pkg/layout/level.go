package layout

import (
	"github.com/matzehuels/seqgrid/pkg/errors"
)

// Axis identifies the screen axis a level advances along.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// AxisOf returns the axis level i contributes to. Even levels are x, odd are y.
func AxisOf(i int) Axis { return Axis(i & 1) }

// levelNames are display names for the conventional hierarchy.
var levelNames = []string{
	"nucleotide in line",
	"line in column",
	"column in row",
	"row in tile",
	"tile column",
	"tile row",
	"page column",
}

// LevelName returns a human-readable name for level i.
func LevelName(i int) string {
	if i >= 0 && i < len(levelNames) {
		return levelNames[i]
	}
	return "page"
}

// Level is one scale of the layout hierarchy.
type Level struct {
	Modulo    int64 // units at this scale before the next level rolls over
	ChunkSize int64 // sequence positions spanned by one unit
	Padding   int64 // pixels inserted between units
	Thickness int64 // pixels spanned by one unit, including Padding
}

// Span returns the number of positions covered by a full level
// (ChunkSize * Modulo).
func (l Level) Span() int64 { return l.ChunkSize * l.Modulo }

// SetPadding replaces the padding and recomputes Thickness from it.
// A negative padding, or one that would leave a negative thickness, is
// rejected and the level is left untouched.
func (l *Level) SetPadding(v int64) error {
	if v < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding %d must not be negative", v)
	}
	thickness := l.Thickness - l.Padding + v
	if thickness < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding %d leaves negative thickness %d", v, thickness)
	}
	l.Padding = v
	l.Thickness = thickness
	return nil
}

// baseLevels builds levels 0 and 1, which are not derived from anything.
func baseLevels(modulos, paddings []int64) []Level {
	levels := []Level{{
		Modulo:    modulos[0],
		ChunkSize: 1,
		Padding:   paddings[0],
		Thickness: 1,
	}}
	if len(modulos) > 1 {
		levels = append(levels, Level{
			Modulo:    modulos[1],
			ChunkSize: modulos[0],
			Padding:   paddings[1],
			Thickness: 1,
		})
	}
	return levels
}

// derivedLevel builds level len(levels) from the levels below it.
func derivedLevel(levels []Level, modulo, padding int64) Level {
	child := levels[len(levels)-1]
	parallel := levels[len(levels)-2]
	return Level{
		Modulo:    modulo,
		ChunkSize: child.Modulo * child.ChunkSize,
		Padding:   padding,
		Thickness: parallel.Modulo*parallel.Thickness + padding,
	}
}
